// Command download-reddit collects recent posts from subreddits into a
// corpus JSONL file for the radar command.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/cognicore/radar/internal/corpus"
	"github.com/cognicore/radar/pkg/radar/ingest"
)

const (
	defaultBaseURL    = "https://www.reddit.com"
	defaultSubreddits = "Entrepreneur,SaaS,smallbusiness,startups,AppIdeas"
	userAgent         = "radar-collector/1.0"
	maxPageSize       = 100
)

// Post is the subset of a reddit listing child the corpus needs
type Post struct {
	Name        string  `json:"name"`
	Title       string  `json:"title"`
	SelfText    string  `json:"selftext"`
	Score       int     `json:"score"`
	NumComments int     `json:"num_comments"`
	Subreddit   string  `json:"subreddit"`
	Created     float64 `json:"created_utc"`
	Stickied    bool    `json:"stickied"`
}

// Listing is a reddit listing response
type Listing struct {
	Data struct {
		After    string `json:"after"`
		Children []struct {
			Kind string `json:"kind"`
			Data Post   `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

// Client fetches subreddit listings
type Client struct {
	HTTPClient *http.Client
	BaseURL    string
	// Delay between page requests.
	Delay time.Duration
}

// NewClient creates a client against the public reddit API
func NewClient() *Client {
	return &Client{
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
		BaseURL:    defaultBaseURL,
		Delay:      time.Second,
	}
}

// Page fetches one page of /r/<sub>/new.json starting after the given fullname.
func (c *Client) Page(ctx context.Context, sub string, limit int, after string) (Listing, error) {
	q := url.Values{}
	q.Set("limit", fmt.Sprint(limit))
	q.Set("raw_json", "1")
	if after != "" {
		q.Set("after", after)
	}
	u := fmt.Sprintf("%s/r/%s/new.json?%s", c.BaseURL, url.PathEscape(sub), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return Listing{}, fmt.Errorf("create request: %w", err)
	}
	// Reddit throttles requests without a descriptive User-Agent.
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return Listing{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Listing{}, fmt.Errorf("r/%s: HTTP %d", sub, resp.StatusCode)
	}

	var l Listing
	if err := json.NewDecoder(resp.Body).Decode(&l); err != nil {
		return Listing{}, fmt.Errorf("decode r/%s: %w", sub, err)
	}
	return l, nil
}

// Collect pages through a subreddit until count posts are gathered or the
// listing ends.
func (c *Client) Collect(ctx context.Context, sub string, count int) ([]ingest.Document, error) {
	var (
		docs  []ingest.Document
		after string
	)
	for len(docs) < count {
		limit := count - len(docs)
		if limit > maxPageSize {
			limit = maxPageSize
		}

		l, err := c.Page(ctx, sub, limit, after)
		if err != nil {
			return docs, err
		}
		for _, child := range l.Data.Children {
			if child.Kind != "t3" || child.Data.Stickied {
				continue
			}
			docs = append(docs, toDocument(child.Data))
		}

		after = l.Data.After
		if after == "" || len(l.Data.Children) == 0 {
			break
		}

		select {
		case <-ctx.Done():
			return docs, ctx.Err()
		case <-time.After(c.Delay):
		}
	}
	return docs, nil
}

func toDocument(p Post) ingest.Document {
	text := corpus.StripHTML(p.Title)
	if body := corpus.StripHTML(p.SelfText); body != "" {
		text += ". " + body
	}

	secs := int64(p.Created)
	return ingest.Document{
		ID:             p.Name,
		Text:           text,
		Timestamp:      time.Unix(secs, 0).UTC(),
		Engagement:     ingest.Engagement{Score: p.Score, CommentCount: p.NumComments},
		SourceCategory: strings.ToLower(p.Subreddit),
	}
}

func main() {
	var (
		subs    = flag.String("subreddits", defaultSubreddits, "Comma-separated subreddits")
		count   = flag.Int("count", 200, "Posts per subreddit")
		outPath = flag.String("out", "testdata/reddit/docs.jsonl", "Output JSONL file")
		baseURL = flag.String("base-url", defaultBaseURL, "Reddit API base URL")
	)
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := os.MkdirAll(filepath.Dir(*outPath), 0o755); err != nil {
		logger.Fatal("Failed to create output directory", zap.Error(err))
	}
	outFile, err := os.Create(*outPath)
	if err != nil {
		logger.Fatal("Failed to create output file", zap.Error(err))
	}
	defer outFile.Close()

	client := NewClient()
	client.BaseURL = *baseURL

	total := 0
	for _, sub := range strings.Split(*subs, ",") {
		sub = strings.TrimSpace(sub)
		if sub == "" {
			continue
		}

		docs, err := client.Collect(ctx, sub, *count)
		if err != nil {
			logger.Warn("Collection incomplete", zap.String("subreddit", sub), zap.Error(err))
		}
		if err := corpus.WriteJSONL(outFile, docs); err != nil {
			logger.Fatal("Failed to write documents", zap.Error(err))
		}
		total += len(docs)
		logger.Info("Collected subreddit", zap.String("subreddit", sub), zap.Int("posts", len(docs)))

		if ctx.Err() != nil {
			break
		}
	}

	logger.Info("Download complete", zap.Int("posts", total), zap.String("out", *outPath))
}
