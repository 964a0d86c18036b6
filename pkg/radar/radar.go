package radar

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cognicore/radar/pkg/radar/cluster"
	"github.com/cognicore/radar/pkg/radar/config"
	"github.com/cognicore/radar/pkg/radar/extract"
	"github.com/cognicore/radar/pkg/radar/ingest"
	"github.com/cognicore/radar/pkg/radar/insight"
	"github.com/cognicore/radar/pkg/radar/score"
	"github.com/cognicore/radar/pkg/radar/similarity"
	"github.com/cognicore/radar/pkg/radar/trend"
)

// Topic is the root aggregate of one pipeline run. Field names are part of
// the output contract consumed by the API and dashboard.
type Topic struct {
	Name              string            `json:"name"`
	Category          string            `json:"category"`
	MentionCount      int               `json:"mention_count"`
	GrowthPercentage  float64           `json:"growth_percentage"`
	Trend             []trend.Point     `json:"trend"`
	PainPoints        []insight.Insight `json:"pain_points"`
	SolutionRequests  []insight.Insight `json:"solution_requests"`
	AppIdeas          []insight.Insight `json:"app_ideas"`
	OpportunityScores score.Breakdown   `json:"opportunity_scores"`
}

// Options configures an Engine
type Options struct {
	// Components built by config.Loader. When nil they are built from Config.
	Components *config.Components
	// Config is used when Components is nil; nil means config.Default().
	Config *config.Config
	// Similarity groups mentions; nil uses similarity.Default().
	Similarity similarity.TextSimilarity
	Logger     *zap.Logger
	Metrics    *Metrics
}

// Engine is the insight-mining pipeline facade. It is safe to call Run
// from several goroutines; runs share no mutable state.
type Engine struct {
	comp      *config.Components
	pipeline  *ingest.Pipeline
	clusterer *cluster.Clusterer
	dedup     *insight.Deduplicator
	workers   int
	log       *zap.Logger
	metrics   *Metrics
}

// New validates the configuration and wires the pipeline components.
// Configuration errors wrap internalerr.ErrInvalidConfig.
func New(opts Options) (*Engine, error) {
	comp := opts.Components
	if comp == nil {
		cfg := opts.Config
		if cfg == nil {
			cfg = config.Default()
		}
		built, err := cfg.Components()
		if err != nil {
			return nil, err
		}
		comp = built
	}

	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	workers := comp.Config.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	return &Engine{
		comp:      comp,
		pipeline:  ingest.NewPipeline(comp.Tokenizer, comp.Parser, comp.Extractor),
		clusterer: cluster.NewClusterer(comp.Config.ClusterOptions(), comp.Taxonomy),
		dedup:     insight.NewDeduplicator(opts.Similarity, comp.Sentiment, comp.Config.InsightOptions()),
		workers:   workers,
		log:       log,
		metrics:   opts.Metrics,
	}, nil
}

// Run mines the corpus and returns topics ordered by total opportunity score,
// then mention count, then name. Malformed documents are logged and skipped.
// An empty corpus yields an empty list. Cancellation is honoured until the
// clustering barrier; after it the run completes.
func (e *Engine) Run(ctx context.Context, docs []ingest.Document) ([]Topic, error) {
	start := time.Now()
	defer func() { e.metrics.observeRun(time.Since(start)) }()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	valid := e.validate(docs)

	processed, err := e.process(ctx, valid)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	groups := e.partition(valid, processed)
	e.log.Debug("partitioned corpus", zap.Int("documents", len(valid)), zap.Int("topics", len(groups)))

	accs := e.reduce(valid, processed, groups)
	topics := e.finalize(groups, accs)

	e.metrics.setTopics(len(topics))
	e.log.Info("pipeline run complete",
		zap.Int("documents", len(valid)),
		zap.Int("skipped", len(docs)-len(valid)),
		zap.Int("topics", len(topics)),
		zap.Duration("elapsed", time.Since(start)))

	return topics, nil
}

func (e *Engine) validate(docs []ingest.Document) []ingest.Document {
	valid := make([]ingest.Document, 0, len(docs))
	for i := range docs {
		if err := docs[i].Validate(); err != nil {
			e.log.Warn("skipping document", zap.Int("index", i), zap.String("doc_id", docs[i].ID), zap.Error(err))
			e.metrics.incSkipped()
			continue
		}
		valid = append(valid, docs[i])
	}
	return valid
}

// process is the parallel map stage: every document is normalized and
// scanned independently into its own slot.
func (e *Engine) process(ctx context.Context, docs []ingest.Document) ([]ingest.ProcessedDoc, error) {
	out := make([]ingest.ProcessedDoc, len(docs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i := range docs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out[i] = e.pipeline.Process(docs[i])
			e.metrics.incProcessed(out[i].Mentions)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("process documents: %w", err)
	}
	return out, nil
}

// partition assigns every document to exactly one topic. Pre-labelled corpora
// keep their labels; otherwise documents are clustered.
func (e *Engine) partition(docs []ingest.Document, processed []ingest.ProcessedDoc) []cluster.Cluster {
	if len(docs) == 0 {
		return []cluster.Cluster{}
	}

	if labelled(docs) {
		index := make(map[string]int)
		var groups []cluster.Cluster
		for i, d := range docs {
			gi, ok := index[d.Topic]
			if !ok {
				gi = len(groups)
				index[d.Topic] = gi
				groups = append(groups, cluster.Cluster{Label: d.Topic})
			}
			groups[gi].Members = append(groups[gi].Members, i)
		}
		for gi := range groups {
			texts := make([]string, len(groups[gi].Members))
			for j, m := range groups[gi].Members {
				texts[j] = docs[m].Text
			}
			groups[gi].Category = e.clusterer.Categorize(texts)
		}
		return groups
	}

	tokens := make([][]string, len(processed))
	texts := make([]string, len(docs))
	for i := range docs {
		tokens[i] = processed[i].Tokens
		texts[i] = docs[i].Text
	}
	return e.clusterer.Cluster(tokens, texts)
}

func labelled(docs []ingest.Document) bool {
	for _, d := range docs {
		if strings.TrimSpace(d.Topic) == "" {
			return false
		}
	}
	return true
}

func (e *Engine) finalize(groups []cluster.Cluster, accs []*accumulator) []Topic {
	topics := make([]Topic, len(groups))

	var g errgroup.Group
	g.SetLimit(e.workers)
	for i := range groups {
		g.Go(func() error {
			topics[i] = e.buildTopic(groups[i], accs[i])
			return nil
		})
	}
	_ = g.Wait()

	sort.SliceStable(topics, func(i, j int) bool {
		a, b := topics[i], topics[j]
		if a.OpportunityScores.Total != b.OpportunityScores.Total {
			return a.OpportunityScores.Total > b.OpportunityScores.Total
		}
		if a.MentionCount != b.MentionCount {
			return a.MentionCount > b.MentionCount
		}
		return a.Name < b.Name
	})
	return topics
}

func (e *Engine) buildTopic(c cluster.Cluster, acc *accumulator) Topic {
	acc.sort()

	points := trend.Aggregate(acc.timestamps(), e.comp.Granularity)
	growth := trend.Growth(points)

	return Topic{
		Name:             c.Label,
		Category:         c.Category,
		MentionCount:     trend.Total(points),
		GrowthPercentage: growth,
		Trend:            points,
		PainPoints:       e.dedup.Insights(acc.mentions(extract.Pain)),
		SolutionRequests: e.dedup.Insights(acc.mentions(extract.Solution)),
		AppIdeas:         e.dedup.Insights(acc.mentions(extract.Idea)),
		OpportunityScores: e.comp.Scorer.Score(score.Input{
			Text:             acc.text(),
			GrowthPercentage: growth,
			MentionCount:     len(acc.docs),
			Upvotes:          acc.upvotes,
			Comments:         acc.comments,
		}),
	}
}
