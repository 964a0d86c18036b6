package ingest

import (
	"fmt"
	"strings"
	"time"

	"github.com/cognicore/radar/pkg/radar/internalerr"
)

// Engagement carries the platform's reaction counters for a document.
type Engagement struct {
	Score        int `json:"score"`
	CommentCount int `json:"comment_count"`
}

// Document is one post or comment of the corpus.
type Document struct {
	ID             string     `json:"id"`
	Text           string     `json:"text"`
	Timestamp      time.Time  `json:"timestamp"`
	Engagement     Engagement `json:"engagement"`
	SourceCategory string     `json:"source_category,omitempty"`
	// Topic is an optional pre-assigned label; when every document of a
	// corpus carries one, clustering is skipped.
	Topic string `json:"topic,omitempty"`
}

// Validate checks if the document has required fields. Empty text is allowed.
func (d *Document) Validate() error {
	if strings.TrimSpace(d.ID) == "" {
		return fmt.Errorf("%w: id is required", internalerr.ErrMalformedDocument)
	}

	if d.Timestamp.IsZero() {
		return fmt.Errorf("%w: document %s has no timestamp", internalerr.ErrMalformedDocument, d.ID)
	}

	return nil
}
