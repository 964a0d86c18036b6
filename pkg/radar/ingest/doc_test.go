package ingest

import (
	"errors"
	"testing"
	"time"

	"github.com/cognicore/radar/pkg/radar/internalerr"
)

func TestDocumentValidate(t *testing.T) {
	ts := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		doc     Document
		wantErr bool
	}{
		{"valid", Document{ID: "p1", Text: "hello", Timestamp: ts}, false},
		{"empty text allowed", Document{ID: "p2", Timestamp: ts}, false},
		{"missing id", Document{ID: "  ", Timestamp: ts}, true},
		{"missing timestamp", Document{ID: "p3"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.doc.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, internalerr.ErrMalformedDocument) {
				t.Errorf("expected ErrMalformedDocument, got %v", err)
			}
		})
	}
}
