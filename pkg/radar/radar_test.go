package radar

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/radar/pkg/radar/config"
	"github.com/cognicore/radar/pkg/radar/ingest"
	"github.com/cognicore/radar/pkg/radar/internalerr"
	"github.com/cognicore/radar/pkg/radar/similarity"
)

func TestRunEmptyCorpus(t *testing.T) {
	engine, err := New(Options{})
	require.NoError(t, err)

	for _, docs := range [][]ingest.Document{nil, {}} {
		topics, err := engine.Run(context.Background(), docs)
		require.NoError(t, err)
		require.NotNil(t, topics)
		assert.Empty(t, topics)

		raw, err := json.Marshal(topics)
		require.NoError(t, err)
		assert.Equal(t, "[]", string(raw))
	}
}

func TestRunSkipsMalformedDocuments(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)

	engine, err := New(Options{Metrics: metrics})
	require.NoError(t, err)

	docs := []ingest.Document{
		{ID: "ok-1", Timestamp: at(2024, 2, 1), Text: "Struggling with exporting reports to PDF."},
		{ID: "", Timestamp: at(2024, 2, 2), Text: "no id"},
		{ID: "no-time", Text: "missing timestamp"},
		{ID: "ok-2", Timestamp: at(2024, 3, 1)},
	}

	topics, err := engine.Run(context.Background(), docs)
	require.NoError(t, err)

	total := 0
	for _, tp := range topics {
		total += tp.MentionCount
	}
	assert.Equal(t, 2, total)

	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.DocumentsSkipped))
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.DocumentsProcessed))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.MentionsExtracted.WithLabelValues("pain")))
	assert.Equal(t, float64(len(topics)), testutil.ToFloat64(metrics.TopicsProduced))
}

func TestRunAllMalformed(t *testing.T) {
	engine, err := New(Options{})
	require.NoError(t, err)

	topics, err := engine.Run(context.Background(), []ingest.Document{{Text: "orphan"}})
	require.NoError(t, err)
	assert.Empty(t, topics)
}

func TestRunDeterministic(t *testing.T) {
	docs := syntheticCorpus(60)

	var outputs []string
	for _, workers := range []int{1, 3, 8, 1} {
		cfg := config.Default()
		cfg.Workers = workers
		cfg.Clustering.K = 3

		engine, err := New(Options{Config: cfg})
		require.NoError(t, err)

		topics, err := engine.Run(context.Background(), docs)
		require.NoError(t, err)

		raw, err := json.Marshal(topics)
		require.NoError(t, err)
		outputs = append(outputs, string(raw))
	}

	for i := 1; i < len(outputs); i++ {
		assert.Equal(t, outputs[0], outputs[i], "run %d differs", i)
	}
}

func TestRunCancelled(t *testing.T) {
	engine, err := New(Options{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = engine.Run(ctx, syntheticCorpus(10))
	assert.True(t, errors.Is(err, context.Canceled), "got %v", err)
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Clustering.K = 0

	_, err := New(Options{Config: cfg})
	assert.True(t, errors.Is(err, internalerr.ErrInvalidConfig), "got %v", err)

	cfg = config.Default()
	cfg.Scoring.Weights.Engagement = 0.5
	_, err = New(Options{Config: cfg})
	assert.True(t, errors.Is(err, internalerr.ErrInvalidConfig), "got %v", err)
}

func TestRunUsesInjectedSimilarity(t *testing.T) {
	everythingAlike := similarity.Func(func(string, string) float64 { return 1 })

	engine, err := New(Options{Similarity: everythingAlike})
	require.NoError(t, err)

	docs := []ingest.Document{
		{ID: "a", Topic: "exports", Timestamp: at(2024, 1, 1), Text: "Frustrated with slow CSV exports."},
		{ID: "b", Topic: "exports", Timestamp: at(2024, 1, 2), Text: "Frustrated with the reporting dashboard."},
		{ID: "c", Topic: "exports", Timestamp: at(2024, 1, 3), Text: "Frustrated with manual copy paste."},
	}

	topics, err := engine.Run(context.Background(), docs)
	require.NoError(t, err)
	require.Len(t, topics, 1)
	require.Len(t, topics[0].PainPoints, 1)
	assert.Equal(t, 3, topics[0].PainPoints[0].Mentions)
	assert.Equal(t, "slow csv exports", topics[0].PainPoints[0].Text)
	assert.Len(t, topics[0].PainPoints[0].Examples, 3)
}

func TestNewWithLoaderComponents(t *testing.T) {
	comp, err := (&config.Loader{}).Load()
	require.NoError(t, err)

	engine, err := New(Options{Components: comp})
	require.NoError(t, err)

	topics, err := engine.Run(context.Background(), labelledCorpus())
	require.NoError(t, err)
	assert.Len(t, topics, 2)
}

func TestNilMetricsAreNoops(t *testing.T) {
	var m *Metrics
	m.incSkipped()
	m.incProcessed(nil)
	m.setTopics(3)
	m.observeRun(time.Second)
}

func syntheticCorpus(n int) []ingest.Document {
	texts := []string{
		"Struggling with tracking invoices for my freelance clients.",
		"Looking for a budget app that syncs with my bank!",
		"Someone should build a gym workout planner with protein tracking.",
		"Tired of paying for a calendar tool that keeps crashing.",
		"Is there a simple todo app for teams? Need it asap.",
		"Would pay for a tax helper for small businesses.",
	}
	docs := make([]ingest.Document, n)
	for i := range docs {
		docs[i] = ingest.Document{
			ID:         id("doc", i%26) + string(rune('0'+i/26)),
			Timestamp:  at(2024, time.Month(1+i%6), 1+i%27),
			Text:       texts[i%len(texts)],
			Engagement: ingest.Engagement{Score: i % 13, CommentCount: i % 5},
		}
	}
	return docs
}
