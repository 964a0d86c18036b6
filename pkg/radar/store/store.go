package store

import (
	"context"
	"crypto/rand"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/cognicore/radar/pkg/radar"
	"github.com/cognicore/radar/pkg/radar/trend"
)

// TrendingGrowth is the growth percentage above which a topic counts as trending.
const TrendingGrowth = 30

// Store persists pipeline runs and serves the latest topic set
type Store interface {
	Close() error

	// SaveRun records a run and replaces the current topic set with its topics.
	SaveRun(ctx context.Context, run Run) error

	// Topics lists current topics matching the filter.
	Topics(ctx context.Context, f Filter) ([]Topic, error)
	// Topic returns one topic; internalerr.ErrNotFound when absent.
	Topic(ctx context.Context, id string) (Topic, error)
	// Categories returns the distinct categories of current topics, sorted.
	Categories(ctx context.Context) ([]string, error)
	// Stats summarizes the current topic set.
	Stats(ctx context.Context) (Stats, error)
	// MarketAnalysis breaks the current topic set down by category and period.
	MarketAnalysis(ctx context.Context) (MarketAnalysis, error)
}

// Run is one completed pipeline run
type Run struct {
	ID        string
	CreatedAt time.Time
	Documents int
	Topics    []radar.Topic
}

// Topic is a stored topic with its identity and provenance
type Topic struct {
	ID    string `json:"id"`
	RunID string `json:"run_id"`
	radar.Topic
	UpdatedAt time.Time `json:"last_updated"`
}

// Order selects the sort order of Topics.
type Order string

const (
	// OrderScore sorts by total score, then mention count, then name.
	OrderScore Order = "score"
	// OrderMentions sorts by mention count, then total score, then name.
	OrderMentions Order = "mentions"
	// OrderGrowth sorts by growth percentage, then total score, then name.
	OrderGrowth Order = "growth"
)

// Filter narrows a topic listing. Zero values disable each condition.
type Filter struct {
	Category string  // exact match; "all" disables
	Search   string  // case-insensitive substring of name or category
	MinScore float64 // minimum total score
	Trending bool    // growth above TrendingGrowth only
	Order    Order   // default OrderScore
	Limit    int     // <= 0 means unlimited
}

// Stats summarizes the current topic set
type Stats struct {
	TotalTopics       int       `json:"totalTopics"`
	TrendingTopics    int       `json:"trendingTopics"`
	TotalCategories   int       `json:"totalCategories"`
	AverageGrowthRate float64   `json:"averageGrowthRate"`
	LastRunID         string    `json:"lastRunId,omitempty"`
	LastRunAt         time.Time `json:"lastRunAt"`
}

// Market analysis limits.
const (
	AnalysisCategories = 5
	AnalysisPeriods    = 6
)

// CategoryCount is a per-category tally.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// MarketAnalysis is the dashboard breakdown of the current topic set.
type MarketAnalysis struct {
	// CategoryDistribution counts topics per category, largest first.
	CategoryDistribution []CategoryCount `json:"categoryDistribution"`
	// GrowthTrends sums mentions per period over the latest periods, oldest first.
	GrowthTrends []trend.Point `json:"growthTrends"`
	// PainPointsByCategory counts pain point insights per category, largest
	// first. Categories without pain points are omitted.
	PainPointsByCategory []CategoryCount `json:"painPointsByCategory"`
}

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.Reader, 0)
)

// NewID returns a new lexically sortable identifier.
func NewID() string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Now(), entropy).String()
}

// Match reports whether t passes every condition of f except Limit and Order.
func (f Filter) Match(t Topic) bool {
	if f.Category != "" && f.Category != "all" && t.Category != f.Category {
		return false
	}
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(t.Name), q) && !strings.Contains(strings.ToLower(t.Category), q) {
			return false
		}
	}
	if t.OpportunityScores.Total < f.MinScore {
		return false
	}
	if f.Trending && t.GrowthPercentage <= TrendingGrowth {
		return false
	}
	return true
}

// SortTopics orders topics in place according to o.
func SortTopics(topics []Topic, o Order) {
	sort.SliceStable(topics, func(i, j int) bool {
		a, b := topics[i], topics[j]
		switch o {
		case OrderMentions:
			if a.MentionCount != b.MentionCount {
				return a.MentionCount > b.MentionCount
			}
		case OrderGrowth:
			if a.GrowthPercentage != b.GrowthPercentage {
				return a.GrowthPercentage > b.GrowthPercentage
			}
		}
		if a.OpportunityScores.Total != b.OpportunityScores.Total {
			return a.OpportunityScores.Total > b.OpportunityScores.Total
		}
		if a.MentionCount != b.MentionCount {
			return a.MentionCount > b.MentionCount
		}
		return a.Name < b.Name
	})
}

// Summarize computes Stats over a topic set.
func Summarize(topics []Topic) Stats {
	s := Stats{TotalTopics: len(topics)}
	cats := make(map[string]struct{})
	growth := 0.0
	for _, t := range topics {
		cats[t.Category] = struct{}{}
		if t.GrowthPercentage > TrendingGrowth {
			s.TrendingTopics++
		}
		growth += t.GrowthPercentage
	}
	s.TotalCategories = len(cats)
	if len(topics) > 0 {
		s.AverageGrowthRate = math.Round(growth/float64(len(topics))*10) / 10
	}
	return s
}

// Analyze computes the MarketAnalysis of a topic set.
func Analyze(topics []Topic) MarketAnalysis {
	topicsPerCat := make(map[string]int)
	painPerCat := make(map[string]int)
	mentions := make(map[string]int)
	for _, t := range topics {
		topicsPerCat[t.Category]++
		if n := len(t.PainPoints); n > 0 {
			painPerCat[t.Category] += n
		}
		for _, p := range t.Trend {
			mentions[p.Period] += p.Mentions
		}
	}

	periods := make([]string, 0, len(mentions))
	for p := range mentions {
		periods = append(periods, p)
	}
	sort.Strings(periods)
	if len(periods) > AnalysisPeriods {
		periods = periods[len(periods)-AnalysisPeriods:]
	}
	growth := make([]trend.Point, len(periods))
	for i, p := range periods {
		growth[i] = trend.Point{Period: p, Mentions: mentions[p]}
	}

	return MarketAnalysis{
		CategoryDistribution: topCategories(topicsPerCat, AnalysisCategories),
		GrowthTrends:         growth,
		PainPointsByCategory: topCategories(painPerCat, AnalysisCategories),
	}
}

// topCategories orders counts by count desc then category, keeping limit.
func topCategories(counts map[string]int, limit int) []CategoryCount {
	out := make([]CategoryCount, 0, len(counts))
	for c, n := range counts {
		out = append(out, CategoryCount{Category: c, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Category < out[j].Category
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
