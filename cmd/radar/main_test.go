package main

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cognicore/radar/pkg/radar"
	"github.com/cognicore/radar/pkg/radar/store"
	"github.com/cognicore/radar/pkg/radar/store/sqlite"
)

const corpusJSONL = `{"id":"p1","text":"I'm struggling with finding a good CRM system.","timestamp":"2023-01-15T10:00:00Z","engagement":{"score":10,"comment_count":2},"topic":"crm"}
{"id":"p2","text":"Looking for a CRM that doesn't cost a fortune!","timestamp":"2023-06-10T10:00:00Z","engagement":{"score":4,"comment_count":1},"topic":"crm"}
{"id":"p3","text":"tired of chasing invoices every month","timestamp":"2023-06-12T10:00:00Z","topic":"invoices"}
not json
`

func TestRunWritesOutputStoreAndMetrics(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "docs.jsonl")
	require.NoError(t, os.WriteFile(input, []byte(corpusJSONL), 0o644))

	opts := options{
		input:      input,
		output:     filepath.Join(dir, "topics.json"),
		dbPath:     filepath.Join(dir, "radar.db"),
		workers:    2,
		metricsOut: filepath.Join(dir, "radar.prom"),
	}
	require.NoError(t, run(context.Background(), opts, zap.NewNop()))

	data, err := os.ReadFile(opts.output)
	require.NoError(t, err)
	var topics []radar.Topic
	require.NoError(t, json.Unmarshal(data, &topics))
	require.Len(t, topics, 2)

	st, err := sqlite.OpenSQLite(context.Background(), opts.dbPath)
	require.NoError(t, err)
	defer st.Close()

	stored, err := st.Topics(context.Background(), store.Filter{Order: store.OrderMentions})
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.Equal(t, "crm", stored[0].Name)
	assert.Equal(t, 2, stored[0].MentionCount)

	metrics, err := os.ReadFile(opts.metricsOut)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(metrics), "radar_documents_processed_total 3"))
}

func TestRunSkipsOptionalSinks(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "docs.jsonl")
	require.NoError(t, os.WriteFile(input, []byte(corpusJSONL), 0o644))

	require.NoError(t, run(context.Background(), options{input: input}, zap.NewNop()))
	_, err := os.Stat(filepath.Join(dir, "radar.db"))
	assert.True(t, os.IsNotExist(err))
}

func TestRunMissingInput(t *testing.T) {
	err := run(context.Background(), options{input: "/nonexistent/docs.jsonl"}, zap.NewNop())
	assert.Error(t, err)
}
