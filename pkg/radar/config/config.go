package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/radar/pkg/radar/cluster"
	"github.com/cognicore/radar/pkg/radar/ingest"
	"github.com/cognicore/radar/pkg/radar/insight"
	"github.com/cognicore/radar/pkg/radar/internalerr"
	"github.com/cognicore/radar/pkg/radar/lexicon"
	"github.com/cognicore/radar/pkg/radar/score"
	"github.com/cognicore/radar/pkg/radar/trend"
)

// Config is the pipeline configuration. All vocabularies are data so they
// can be swapped without code changes.
type Config struct {
	Indicators          Indicators           `yaml:"indicators"`
	Categories          []ingest.Category    `yaml:"categories"`
	SimilarityThreshold float64              `yaml:"similarity_threshold"`
	MaxInsights         int                  `yaml:"max_insights"`
	MaxExamples         int                  `yaml:"max_examples"`
	Clustering          Clustering           `yaml:"clustering"`
	Trend               Trend                `yaml:"trend"`
	Scoring             Scoring              `yaml:"scoring"`
	Stopwords           []string             `yaml:"stopwords"`
	Lexicon             []lexicon.Group      `yaml:"lexicon"`
	Phrases             []ingest.PhraseEntry `yaml:"phrases"`
	Workers             int                  `yaml:"workers"` // 0 = GOMAXPROCS
}

// Indicators holds the ordered trigger phrases of each indicator category.
type Indicators struct {
	Pain     []string `yaml:"pain"`
	Solution []string `yaml:"solution"`
	Idea     []string `yaml:"idea"`
}

// Clustering configures the topic clusterer.
type Clustering struct {
	K             int     `yaml:"k"`
	MaxFeatures   int     `yaml:"max_features"`
	MinDF         int     `yaml:"min_df"`
	MaxDF         float64 `yaml:"max_df"`
	Seed          int64   `yaml:"seed"`
	MaxIterations int     `yaml:"max_iterations"`
}

// Trend configures period bucketing.
type Trend struct {
	Granularity string `yaml:"granularity"`
}

// Scoring configures the opportunity scorer.
type Scoring struct {
	Weights           score.Weights `yaml:"weights"`
	Terms             score.Terms   `yaml:"terms"`
	Multipliers       Multipliers   `yaml:"multipliers"`
	PunctuationWeight float64       `yaml:"punctuation_weight"`
	CommentWeight     float64       `yaml:"comment_weight"`
	EngagementDivisor float64       `yaml:"engagement_divisor"`
	MentionDivisor    float64       `yaml:"mention_divisor"`
	GrowthWeight      float64       `yaml:"growth_weight"`
}

// Multipliers scale keyword hits into component points.
type Multipliers struct {
	Monetization float64 `yaml:"monetization"`
	Urgency      float64 `yaml:"urgency"`
	Market       float64 `yaml:"market"`
	Competition  float64 `yaml:"competition"`
}

// Load reads a YAML configuration file on top of Default. Keys absent from
// the file keep their default; lists present in the file replace the default list.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", internalerr.ErrInvalidConfig, path, err)
	}
	return cfg, nil
}

// Validate checks the configuration before any document is processed.
func (c *Config) Validate() error {
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%w: "+format, append([]any{internalerr.ErrInvalidConfig}, args...)...)
	}

	if len(c.Indicators.Pain) == 0 || len(c.Indicators.Solution) == 0 || len(c.Indicators.Idea) == 0 {
		return invalid("indicators: pain, solution and idea phrase lists are required")
	}
	for i, cat := range c.Categories {
		if cat.Name == "" {
			return invalid("categories[%d]: name is required", i)
		}
	}
	if c.SimilarityThreshold <= 0 || c.SimilarityThreshold > 1 || math.IsNaN(c.SimilarityThreshold) {
		return invalid("similarity_threshold must be in (0,1], got %v", c.SimilarityThreshold)
	}
	if c.MaxInsights <= 0 || c.MaxExamples <= 0 {
		return invalid("max_insights and max_examples must be positive")
	}
	if c.Clustering.K <= 0 {
		return invalid("clustering.k must be positive, got %d", c.Clustering.K)
	}
	if c.Clustering.MaxFeatures <= 0 {
		return invalid("clustering.max_features must be positive, got %d", c.Clustering.MaxFeatures)
	}
	if c.Clustering.MinDF < 1 {
		return invalid("clustering.min_df must be at least 1, got %d", c.Clustering.MinDF)
	}
	if c.Clustering.MaxDF <= 0 || c.Clustering.MaxDF > 1 {
		return invalid("clustering.max_df must be in (0,1], got %v", c.Clustering.MaxDF)
	}
	if c.Clustering.MaxIterations <= 0 {
		return invalid("clustering.max_iterations must be positive, got %d", c.Clustering.MaxIterations)
	}
	if _, err := trend.ParseGranularity(c.Trend.Granularity); err != nil {
		return err
	}
	if err := c.Scoring.Weights.Validate(); err != nil {
		return err
	}
	m := c.Scoring.Multipliers
	for _, v := range []float64{m.Monetization, m.Urgency, m.Market, m.Competition,
		c.Scoring.PunctuationWeight, c.Scoring.CommentWeight, c.Scoring.EngagementDivisor,
		c.Scoring.MentionDivisor, c.Scoring.GrowthWeight} {
		if v < 0 || math.IsNaN(v) {
			return invalid("scoring multipliers and divisors must be non-negative, got %v", v)
		}
	}
	if c.Workers < 0 {
		return invalid("workers must be non-negative, got %d", c.Workers)
	}
	return nil
}

// ClusterOptions converts the clustering section.
func (c *Config) ClusterOptions() cluster.Options {
	return cluster.Options{
		K:             c.Clustering.K,
		MaxFeatures:   c.Clustering.MaxFeatures,
		MinDF:         c.Clustering.MinDF,
		MaxDF:         c.Clustering.MaxDF,
		Seed:          c.Clustering.Seed,
		MaxIterations: c.Clustering.MaxIterations,
	}
}

// InsightOptions converts the deduplication settings.
func (c *Config) InsightOptions() insight.Options {
	return insight.Options{
		Threshold:   c.SimilarityThreshold,
		MaxInsights: c.MaxInsights,
		MaxExamples: c.MaxExamples,
	}
}

// ScoreOptions converts the scoring multipliers.
func (c *Config) ScoreOptions() score.Options {
	return score.Options{
		MonetizationMultiplier: c.Scoring.Multipliers.Monetization,
		UrgencyMultiplier:      c.Scoring.Multipliers.Urgency,
		MarketMultiplier:       c.Scoring.Multipliers.Market,
		CompetitionMultiplier:  c.Scoring.Multipliers.Competition,
		PunctuationWeight:      c.Scoring.PunctuationWeight,
		CommentWeight:          c.Scoring.CommentWeight,
		EngagementDivisor:      c.Scoring.EngagementDivisor,
		MentionDivisor:         c.Scoring.MentionDivisor,
		GrowthWeight:           c.Scoring.GrowthWeight,
	}
}

// Stoplist represents the stopword list configuration
type Stoplist struct {
	Terms []string `yaml:"terms"`
}

// LoadStoplist loads stopwords from a YAML file
func LoadStoplist(path string) (*Stoplist, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var sl Stoplist
	if err := yaml.Unmarshal(data, &sl); err != nil {
		return nil, err
	}

	return &sl, nil
}
