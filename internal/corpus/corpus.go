package corpus

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/cognicore/radar/pkg/radar/ingest"
)

// maxLineSize bounds one JSONL record, newline included.
var maxLineSize = 4 << 20

// Record is the JSONL wire form of a corpus document. It is looser than
// ingest.Document: timestamps may be RFC 3339 strings or unix seconds, and
// an optional title is prepended to the text.
type Record struct {
	ID             string            `json:"id"`
	Title          string            `json:"title,omitempty"`
	Text           string            `json:"text"`
	Timestamp      json.RawMessage   `json:"timestamp"`
	Engagement     ingest.Engagement `json:"engagement"`
	SourceCategory string            `json:"source_category,omitempty"`
	Topic          string            `json:"topic,omitempty"`
}

// Document converts the record, stripping markup from title and text.
func (r Record) Document() (ingest.Document, error) {
	ts, err := ParseTimestamp(r.Timestamp)
	if err != nil {
		return ingest.Document{}, fmt.Errorf("document %s: %w", r.ID, err)
	}

	text := StripHTML(r.Text)
	if title := StripHTML(r.Title); title != "" {
		if text == "" {
			text = title
		} else {
			text = title + ". " + text
		}
	}

	return ingest.Document{
		ID:             r.ID,
		Text:           text,
		Timestamp:      ts,
		Engagement:     r.Engagement,
		SourceCategory: r.SourceCategory,
		Topic:          r.Topic,
	}, nil
}

// LoadFromJSONL loads documents from a JSONL file.
func LoadFromJSONL(path string, log *zap.Logger) ([]ingest.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	if log == nil {
		log = zap.NewNop()
	}
	return Decode(f, log.With(zap.String("path", path)))
}

// Decode reads JSONL records from r. Malformed or oversized lines are
// logged and skipped; document validation is left to the engine.
func Decode(r io.Reader, log *zap.Logger) ([]ingest.Document, error) {
	if log == nil {
		log = zap.NewNop()
	}

	br := bufio.NewReaderSize(r, 64*1024)
	docs := []ingest.Document{}
	line := 0
	for {
		raw, tooLong, err := readLine(br, maxLineSize)
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("read corpus: %w", err)
		}
		if len(raw) > 0 || tooLong || err == nil {
			line++
			if tooLong {
				log.Warn("skipping oversized line", zap.Int("line", line), zap.Int("limit", maxLineSize))
			} else if doc, ok := decodeLine(bytes.TrimSpace(raw), line, log); ok {
				docs = append(docs, doc)
			}
		}
		if err != nil {
			return docs, nil
		}
	}
}

func decodeLine(raw []byte, line int, log *zap.Logger) (ingest.Document, bool) {
	if len(raw) == 0 {
		return ingest.Document{}, false
	}

	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		log.Warn("skipping malformed JSON", zap.Int("line", line), zap.Error(err))
		return ingest.Document{}, false
	}
	doc, err := rec.Document()
	if err != nil {
		log.Warn("skipping record", zap.Int("line", line), zap.Error(err))
		return ingest.Document{}, false
	}
	return doc, true
}

// readLine returns the next line without buffering more than limit bytes.
// An oversized line is consumed to its end and reported as tooLong.
func readLine(br *bufio.Reader, limit int) (line []byte, tooLong bool, err error) {
	for {
		chunk, err := br.ReadSlice('\n')
		if !tooLong {
			if len(line)+len(chunk) > limit {
				tooLong, line = true, nil
			} else {
				line = append(line, chunk...)
			}
		}
		if !errors.Is(err, bufio.ErrBufferFull) {
			return line, tooLong, err
		}
	}
}

// WriteJSONL encodes documents one per line.
func WriteJSONL(w io.Writer, docs []ingest.Document) error {
	enc := json.NewEncoder(w)
	for _, d := range docs {
		if err := enc.Encode(d); err != nil {
			return err
		}
	}
	return nil
}

// ParseTimestamp accepts an RFC 3339 string, a unix seconds number or a
// numeric string. A missing value yields the zero time.
func ParseTimestamp(raw json.RawMessage) (time.Time, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return time.Time{}, nil
	}

	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return time.Time{}, err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return time.Time{}, nil
		}
		if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
			return t, nil
		}
		if t, err := time.Parse("2006-01-02 15:04:05", s); err == nil {
			return t, nil
		}
		if t, err := time.Parse("2006-01-02", s); err == nil {
			return t, nil
		}
		raw = []byte(s)
	}

	secs, err := strconv.ParseFloat(string(raw), 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("unrecognized timestamp %s", raw)
	}
	whole := int64(secs)
	return time.Unix(whole, int64((secs-float64(whole))*1e9)).UTC(), nil
}

// StripHTML returns the text content of s with entities decoded.
func StripHTML(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return strings.TrimSpace(s)
	}

	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(html.UnescapeString(s))
	}

	var buf strings.Builder
	var extractText func(*html.Node)
	extractText = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extractText(c)
		}
	}
	extractText(doc)

	return strings.TrimSpace(buf.String())
}
