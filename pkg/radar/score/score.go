// Package score computes the bounded multi-factor opportunity score of a topic.
package score

import (
	"fmt"
	"math"
	"strings"

	"github.com/cognicore/radar/pkg/radar/ingest"
	"github.com/cognicore/radar/pkg/radar/internalerr"
)

const weightTolerance = 1e-6

// Weights defines the share of each component in the total score
type Weights struct {
	Monetization float64 `yaml:"monetization"`
	Urgency      float64 `yaml:"urgency"`
	Market       float64 `yaml:"market"`
	Competition  float64 `yaml:"competition"`
	Engagement   float64 `yaml:"engagement"`
}

// DefaultWeights returns 0.30/0.20/0.20/0.15/0.15.
func DefaultWeights() Weights {
	return Weights{
		Monetization: 0.30,
		Urgency:      0.20,
		Market:       0.20,
		Competition:  0.15,
		Engagement:   0.15,
	}
}

// Sum returns the total of all weights.
func (w Weights) Sum() float64 {
	return w.Monetization + w.Urgency + w.Market + w.Competition + w.Engagement
}

// Validate checks that weights are non-negative and sum to 1.
func (w Weights) Validate() error {
	named := []struct {
		name string
		v    float64
	}{
		{"monetization", w.Monetization},
		{"urgency", w.Urgency},
		{"market", w.Market},
		{"competition", w.Competition},
		{"engagement", w.Engagement},
	}
	for _, n := range named {
		if n.v < 0 || math.IsNaN(n.v) {
			return fmt.Errorf("%w: weight %s must be non-negative, got %v", internalerr.ErrInvalidConfig, n.name, n.v)
		}
	}
	if sum := w.Sum(); math.Abs(sum-1) > weightTolerance {
		return fmt.Errorf("%w: weights must sum to 1, got %v", internalerr.ErrInvalidConfig, sum)
	}
	return nil
}

// Terms are the keyword lists behind the text-driven components.
type Terms struct {
	Monetization []string `yaml:"monetization"`
	Urgency      []string `yaml:"urgency"`
	Market       []string `yaml:"market"`
	Competition  []string `yaml:"competition"`
}

// Options hold the fixed multipliers and divisors of the formula.
type Options struct {
	MonetizationMultiplier float64
	UrgencyMultiplier      float64
	MarketMultiplier       float64
	CompetitionMultiplier  float64
	PunctuationWeight      float64 // per '!' added to urgency
	CommentWeight          float64 // comments count this much more than upvotes
	EngagementDivisor      float64
	MentionDivisor         float64 // market proxy: mentions per point
	GrowthWeight           float64 // market proxy: points per growth percent
}

// DefaultOptions returns the default multipliers.
func DefaultOptions() Options {
	return Options{
		MonetizationMultiplier: 10,
		UrgencyMultiplier:      10,
		MarketMultiplier:       10,
		CompetitionMultiplier:  10,
		PunctuationWeight:      2,
		CommentWeight:          2,
		EngagementDivisor:      10,
		MentionDivisor:         1,
		GrowthWeight:           0.2,
	}
}

// Input is the topic-level data the scorer reads.
type Input struct {
	Text             string // concatenated topic text
	GrowthPercentage float64
	MentionCount     int
	Upvotes          int
	Comments         int
}

// Breakdown provides the component and total scores, each in [0,100]
type Breakdown struct {
	Total        float64 `json:"total_score"`
	Monetization float64 `json:"monetization_score"`
	Urgency      float64 `json:"urgency_score"`
	Market       float64 `json:"market_score"`
	Competition  float64 `json:"competition_score"`
	Engagement   float64 `json:"engagement_score"`
}

// Scorer calculates opportunity scores
type Scorer struct {
	weights Weights
	terms   Terms
	opts    Options
}

// NewScorer creates a scorer. Weights are validated; terms are lowercased.
func NewScorer(w Weights, terms Terms, opts Options) (*Scorer, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	return &Scorer{
		weights: w,
		terms: Terms{
			Monetization: lower(terms.Monetization),
			Urgency:      lower(terms.Urgency),
			Market:       lower(terms.Market),
			Competition:  lower(terms.Competition),
		},
		opts: opts,
	}, nil
}

// Score calculates the breakdown for one topic
//
// total = wm·monetization + wu·urgency + wk·market + wc·competition + we·engagement
//
// Every component and the total are clamped to [0,100] and rounded to one decimal.
func (s *Scorer) Score(in Input) Breakdown {
	text := strings.ToLower(in.Text)

	monetization := float64(ingest.CountHits(text, s.terms.Monetization)) * s.opts.MonetizationMultiplier

	urgency := float64(ingest.CountHits(text, s.terms.Urgency))*s.opts.UrgencyMultiplier +
		float64(strings.Count(text, "!"))*s.opts.PunctuationWeight

	market := float64(ingest.CountHits(text, s.terms.Market)) * s.opts.MarketMultiplier
	if market == 0 {
		market = s.marketProxy(in)
	}

	competition := 100 - float64(ingest.CountHits(text, s.terms.Competition))*s.opts.CompetitionMultiplier

	engagement := 0.0
	if s.opts.EngagementDivisor > 0 {
		engagement = (float64(in.Upvotes) + s.opts.CommentWeight*float64(in.Comments)) / s.opts.EngagementDivisor
	}

	b := Breakdown{
		Monetization: clamp(monetization),
		Urgency:      clamp(urgency),
		Market:       clamp(market),
		Competition:  clamp(competition),
		Engagement:   clamp(engagement),
	}
	b.Total = clamp(s.weights.Monetization*b.Monetization +
		s.weights.Urgency*b.Urgency +
		s.weights.Market*b.Market +
		s.weights.Competition*b.Competition +
		s.weights.Engagement*b.Engagement)

	b.Monetization = round1(b.Monetization)
	b.Urgency = round1(b.Urgency)
	b.Market = round1(b.Market)
	b.Competition = round1(b.Competition)
	b.Engagement = round1(b.Engagement)
	b.Total = round1(b.Total)
	return b
}

// marketProxy estimates market size from activity when the text has no signal.
func (s *Scorer) marketProxy(in Input) float64 {
	proxy := 0.0
	if s.opts.MentionDivisor > 0 {
		proxy = float64(in.MentionCount) / s.opts.MentionDivisor
	}
	if in.GrowthPercentage > 0 {
		proxy += in.GrowthPercentage * s.opts.GrowthWeight
	}
	return proxy
}

func clamp(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 100:
		return 100
	}
	return v
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func lower(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}
