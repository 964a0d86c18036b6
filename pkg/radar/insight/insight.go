// Package insight collapses near-duplicate mentions into representative insights.
package insight

import (
	"math"
	"sort"

	"github.com/cognicore/radar/pkg/radar/extract"
	"github.com/cognicore/radar/pkg/radar/similarity"
)

// Defaults for Options.
const (
	DefaultThreshold   = 0.75
	DefaultMaxInsights = 10
	DefaultMaxExamples = 3
)

// Insight is a group of similar mentions of one category.
type Insight struct {
	Text      string           `json:"text"`
	Mentions  int              `json:"mentions"`
	Sentiment float64          `json:"sentiment"`
	Examples  []string         `json:"examples"`
	Category  extract.Category `json:"-"`
}

// SentimentScorer scores text polarity in [-1,1].
type SentimentScorer interface {
	Score(text string) float64
}

// Options tune grouping and output size. Zero values take the defaults.
type Options struct {
	Threshold   float64
	MaxInsights int
	MaxExamples int
}

func (o Options) withDefaults() Options {
	if o.Threshold <= 0 {
		o.Threshold = DefaultThreshold
	}
	if o.MaxInsights <= 0 {
		o.MaxInsights = DefaultMaxInsights
	}
	if o.MaxExamples <= 0 {
		o.MaxExamples = DefaultMaxExamples
	}
	return o
}

// Group is an ordered set of mentions; the first one is the representative.
type Group struct {
	Members []extract.Mention
}

// Representative returns the mention that opened the group.
func (g Group) Representative() extract.Mention {
	return g.Members[0]
}

// Deduplicator groups mentions by similarity to each group's representative.
// It is stateless between calls and deterministic for a given input order.
type Deduplicator struct {
	sim       similarity.TextSimilarity
	sentiment SentimentScorer
	opts      Options
}

// NewDeduplicator creates a deduplicator. A nil similarity uses
// similarity.Default; a nil sentiment scorer reports 0 for every insight.
func NewDeduplicator(sim similarity.TextSimilarity, sentiment SentimentScorer, opts Options) *Deduplicator {
	if sim == nil {
		sim = similarity.Default()
	}
	return &Deduplicator{sim: sim, sentiment: sentiment, opts: opts.withDefaults()}
}

// Group partitions mentions in input order. Each mention joins the group whose
// representative scores highest against it when that score reaches the
// threshold; otherwise it opens a new group. The earliest group wins ties.
func (d *Deduplicator) Group(mentions []extract.Mention) []Group {
	var groups []Group
	for _, m := range mentions {
		best, bestScore := -1, math.Inf(-1)
		for i := range groups {
			s := d.sim.Score(groups[i].Representative().Text, m.Text)
			if s > bestScore {
				best, bestScore = i, s
			}
		}
		if best >= 0 && bestScore >= d.opts.Threshold {
			groups[best].Members = append(groups[best].Members, m)
			continue
		}
		groups = append(groups, Group{Members: []extract.Mention{m}})
	}
	return groups
}

// Insights groups mentions and summarizes every group. The result is sorted
// by mention count (stable, so earlier groups win ties) and truncated to
// MaxInsights. It is never nil.
func (d *Deduplicator) Insights(mentions []extract.Mention) []Insight {
	groups := d.Group(mentions)
	out := make([]Insight, 0, len(groups))
	for _, g := range groups {
		out = append(out, d.summarize(g))
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Mentions > out[j].Mentions
	})

	if len(out) > d.opts.MaxInsights {
		out = out[:d.opts.MaxInsights]
	}
	return out
}

func (d *Deduplicator) summarize(g Group) Insight {
	rep := g.Representative()
	ins := Insight{
		Text:     rep.Text,
		Mentions: len(g.Members),
		Examples: make([]string, 0, d.opts.MaxExamples),
		Category: rep.Category,
	}

	seen := make(map[string]struct{}, d.opts.MaxExamples)
	sum := 0.0
	for _, m := range g.Members {
		if d.sentiment != nil {
			sum += d.sentiment.Score(m.Raw)
		}
		if len(ins.Examples) >= d.opts.MaxExamples {
			continue
		}
		if _, dup := seen[m.Raw]; dup {
			continue
		}
		seen[m.Raw] = struct{}{}
		ins.Examples = append(ins.Examples, m.Raw)
	}

	ins.Sentiment = round3(sum / float64(len(g.Members)))
	return ins
}

func round3(v float64) float64 {
	r := math.Round(v*1000) / 1000
	if r == 0 {
		return 0 // avoid -0 in JSON
	}
	return r
}
