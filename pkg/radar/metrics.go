package radar

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/cognicore/radar/pkg/radar/extract"
)

// Metrics holds the pipeline's Prometheus collectors. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	DocumentsProcessed prometheus.Counter
	DocumentsSkipped   prometheus.Counter
	MentionsExtracted  *prometheus.CounterVec
	TopicsProduced     prometheus.Gauge
	RunDuration        prometheus.Histogram
}

// NewMetrics creates the collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		DocumentsProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "radar_documents_processed_total",
			Help: "Documents normalized and scanned for mentions.",
		}),
		DocumentsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "radar_documents_skipped_total",
			Help: "Malformed documents skipped.",
		}),
		MentionsExtracted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "radar_mentions_extracted_total",
			Help: "Mentions extracted, by indicator category.",
		}, []string{"category"}),
		TopicsProduced: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "radar_topics_produced",
			Help: "Topics produced by the last run.",
		}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "radar_run_duration_seconds",
			Help:    "Wall time of pipeline runs.",
			Buckets: prometheus.ExponentialBuckets(0.01, 4, 8),
		}),
	}
	reg.MustRegister(m.DocumentsProcessed, m.DocumentsSkipped, m.MentionsExtracted, m.TopicsProduced, m.RunDuration)
	return m
}

func (m *Metrics) incProcessed(mentions []extract.Mention) {
	if m == nil {
		return
	}
	m.DocumentsProcessed.Inc()
	for _, mention := range mentions {
		m.MentionsExtracted.WithLabelValues(string(mention.Category)).Inc()
	}
}

func (m *Metrics) incSkipped() {
	if m == nil {
		return
	}
	m.DocumentsSkipped.Inc()
}

func (m *Metrics) setTopics(n int) {
	if m == nil {
		return
	}
	m.TopicsProduced.Set(float64(n))
}

func (m *Metrics) observeRun(d time.Duration) {
	if m == nil {
		return
	}
	m.RunDuration.Observe(d.Seconds())
}
