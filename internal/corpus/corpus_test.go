package corpus

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/cognicore/radar/pkg/radar/ingest"
)

func TestDecodeSkipsMalformedLines(t *testing.T) {
	input := strings.Join([]string{
		`{"id":"p1","text":"I'm struggling with finding a good CRM system.","timestamp":"2023-01-15T10:00:00Z","engagement":{"score":12,"comment_count":3}}`,
		``,
		`{not json`,
		`{"id":"p2","title":"Invoices","text":"tired of manual invoicing","timestamp":1686787200,"source_category":"smallbusiness"}`,
		`{"id":"p3","text":"bad time","timestamp":"yesterday"}`,
	}, "\n")

	core, logs := observer.New(zapcore.WarnLevel)
	docs, err := Decode(strings.NewReader(input), zap.New(core))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if len(docs) != 2 {
		t.Fatalf("got %d docs, want 2", len(docs))
	}
	if logs.Len() != 2 {
		t.Errorf("got %d warnings, want 2", logs.Len())
	}

	if docs[0].Engagement.Score != 12 || docs[0].Engagement.CommentCount != 3 {
		t.Errorf("engagement = %+v", docs[0].Engagement)
	}
	if !docs[0].Timestamp.Equal(time.Date(2023, 1, 15, 10, 0, 0, 0, time.UTC)) {
		t.Errorf("timestamp = %v", docs[0].Timestamp)
	}

	if docs[1].Text != "Invoices. tired of manual invoicing" {
		t.Errorf("text = %q", docs[1].Text)
	}
	if !docs[1].Timestamp.Equal(time.Date(2023, 6, 15, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unix timestamp = %v", docs[1].Timestamp)
	}
	if docs[1].SourceCategory != "smallbusiness" {
		t.Errorf("source category = %q", docs[1].SourceCategory)
	}
}

func TestDecodeSkipsOversizedLines(t *testing.T) {
	defer func(n int) { maxLineSize = n }(maxLineSize)
	maxLineSize = 80 * 1024

	// the long line spans several reader buffers but stays under the limit
	long := strings.Repeat("a", 70*1024)
	input := strings.Join([]string{
		`{"id":"p1","text":"tired of manual invoicing","timestamp":1686787200}`,
		`{"id":"big","text":"` + strings.Repeat("x", 200*1024) + `","timestamp":1686787200}`,
		`{"id":"p2","text":"` + long + `","timestamp":1686787200}`,
		`{"id":"p3","text":"looking for a budget app","timestamp":1686787200}`,
	}, "\n")

	core, logs := observer.New(zapcore.WarnLevel)
	docs, err := Decode(strings.NewReader(input), zap.New(core))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if len(docs) != 3 {
		t.Fatalf("got %d docs, want 3", len(docs))
	}
	if docs[0].ID != "p1" || docs[1].ID != "p2" || docs[2].ID != "p3" {
		t.Errorf("ids = %s %s %s", docs[0].ID, docs[1].ID, docs[2].ID)
	}
	if docs[1].Text != long {
		t.Errorf("long line text truncated to %d bytes", len(docs[1].Text))
	}

	warnings := logs.FilterMessage("skipping oversized line").All()
	if len(warnings) != 1 {
		t.Fatalf("got %d oversized warnings, want 1", len(warnings))
	}
	if got := warnings[0].ContextMap()["line"]; got != int64(2) {
		t.Errorf("warning line = %v, want 2", got)
	}
}

func TestDecodeEmpty(t *testing.T) {
	docs, err := Decode(strings.NewReader("\n\n"), nil)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if docs == nil || len(docs) != 0 {
		t.Errorf("docs = %#v, want empty non-nil", docs)
	}
}

func TestDecodeKeepsMissingTimestamp(t *testing.T) {
	// validation belongs to the engine, which counts the skip
	docs, err := Decode(strings.NewReader(`{"id":"p1","text":"hello"}`), nil)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(docs) != 1 || !docs[0].Timestamp.IsZero() {
		t.Errorf("docs = %+v", docs)
	}
}

func TestParseTimestamp(t *testing.T) {
	want := time.Date(2023, 6, 15, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		raw  string
		want time.Time
		err  bool
	}{
		{"rfc3339", `"2023-06-15T00:00:00Z"`, want, false},
		{"offset", `"2023-06-15T02:00:00+02:00"`, want, false},
		{"sql", `"2023-06-15 00:00:00"`, want, false},
		{"date", `"2023-06-15"`, want, false},
		{"unix", `1686787200`, want, false},
		{"unix float", `1686787200.0`, want, false},
		{"unix string", `"1686787200"`, want, false},
		{"null", `null`, time.Time{}, false},
		{"empty", ``, time.Time{}, false},
		{"garbage", `"soon"`, time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTimestamp(json.RawMessage(tt.raw))
			if (err != nil) != tt.err {
				t.Fatalf("err = %v, want error %v", err, tt.err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStripHTML(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple paragraph", "<p>Hello world</p>", "Hello world"},
		{"nested tags", "<p><strong>Bold</strong> and <em>italic</em></p>", "Bold and italic"},
		{"entities", "Tom &amp; Jerry&#39;s app", "Tom & Jerry's app"},
		{"plain text", "No HTML here", "No HTML here"},
		{"only whitespace", "   \t\n  ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripHTML(tt.input); got != tt.want {
				t.Errorf("StripHTML(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestLoadFromJSONLRoundTrip(t *testing.T) {
	docs := []ingest.Document{
		{ID: "a", Text: "frustrated with spreadsheets", Timestamp: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), Topic: "spreadsheets"},
		{ID: "b", Text: "looking for a budget app", Timestamp: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
	}

	var buf bytes.Buffer
	if err := WriteJSONL(&buf, docs); err != nil {
		t.Fatalf("WriteJSONL: %v", err)
	}
	path := filepath.Join(t.TempDir(), "docs.jsonl")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := LoadFromJSONL(path, zap.NewNop())
	if err != nil {
		t.Fatalf("LoadFromJSONL: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d docs", len(got))
	}
	for i := range docs {
		if got[i].ID != docs[i].ID || got[i].Text != docs[i].Text || got[i].Topic != docs[i].Topic ||
			!got[i].Timestamp.Equal(docs[i].Timestamp) {
			t.Errorf("doc %d = %+v, want %+v", i, got[i], docs[i])
		}
	}
}

func TestLoadFromJSONLMissingFile(t *testing.T) {
	if _, err := LoadFromJSONL("/nonexistent/docs.jsonl", zap.NewNop()); err == nil {
		t.Error("expected error for missing file")
	}
}
