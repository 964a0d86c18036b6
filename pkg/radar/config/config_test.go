package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/cognicore/radar/pkg/radar/internalerr"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := writeFile(t, "radar.yaml", `
indicators:
  pain: ["can't stand"]
similarity_threshold: 0.8
clustering:
  k: 3
trend:
  granularity: week
categories:
  - name: pets
    keywords: [dog, cat]
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if len(cfg.Indicators.Pain) != 1 || cfg.Indicators.Pain[0] != "can't stand" {
		t.Errorf("Pain = %v", cfg.Indicators.Pain)
	}
	if len(cfg.Indicators.Solution) == 0 {
		t.Error("Solution phrases should keep their defaults")
	}
	if cfg.SimilarityThreshold != 0.8 {
		t.Errorf("SimilarityThreshold = %v", cfg.SimilarityThreshold)
	}
	if cfg.Clustering.K != 3 || cfg.Clustering.MaxFeatures != 1000 {
		t.Errorf("Clustering = %+v", cfg.Clustering)
	}
	if cfg.Trend.Granularity != "week" {
		t.Errorf("Granularity = %q", cfg.Trend.Granularity)
	}
	if len(cfg.Categories) != 1 || cfg.Categories[0].Name != "pets" {
		t.Errorf("Categories = %+v", cfg.Categories)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load("/nonexistent/radar.yaml"); err == nil {
		t.Error("expected error for missing file")
	}

	path := writeFile(t, "bad.yaml", "clustering: [not, a, map")
	if _, err := Load(path); !errors.Is(err, internalerr.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no pain phrases", func(c *Config) { c.Indicators.Pain = nil }},
		{"no idea phrases", func(c *Config) { c.Indicators.Idea = []string{} }},
		{"unnamed category", func(c *Config) { c.Categories[0].Name = "" }},
		{"zero threshold", func(c *Config) { c.SimilarityThreshold = 0 }},
		{"threshold above one", func(c *Config) { c.SimilarityThreshold = 1.5 }},
		{"zero k", func(c *Config) { c.Clustering.K = 0 }},
		{"negative k", func(c *Config) { c.Clustering.K = -2 }},
		{"zero max features", func(c *Config) { c.Clustering.MaxFeatures = 0 }},
		{"zero min df", func(c *Config) { c.Clustering.MinDF = 0 }},
		{"max df above one", func(c *Config) { c.Clustering.MaxDF = 1.2 }},
		{"bad granularity", func(c *Config) { c.Trend.Granularity = "hour" }},
		{"weights not summing to one", func(c *Config) { c.Scoring.Weights.Monetization = 0.5 }},
		{"negative multiplier", func(c *Config) { c.Scoring.Multipliers.Urgency = -1 }},
		{"negative workers", func(c *Config) { c.Workers = -1 }},
		{"zero max insights", func(c *Config) { c.MaxInsights = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if !errors.Is(err, internalerr.ErrInvalidConfig) {
				t.Errorf("Validate() = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestLoadStoplist(t *testing.T) {
	path := writeFile(t, "stop.yaml", "terms:\n  - reddit\n  - subreddit\n")
	sl, err := LoadStoplist(path)
	if err != nil {
		t.Fatalf("LoadStoplist: %v", err)
	}
	if len(sl.Terms) != 2 || sl.Terms[0] != "reddit" {
		t.Errorf("Terms = %v", sl.Terms)
	}
}

func TestOptionConversions(t *testing.T) {
	cfg := Default()
	cfg.Clustering.K = 5
	cfg.SimilarityThreshold = 0.6

	if got := cfg.ClusterOptions(); got.K != 5 || got.Seed != 42 {
		t.Errorf("ClusterOptions = %+v", got)
	}
	if got := cfg.InsightOptions(); got.Threshold != 0.6 || got.MaxExamples != 3 {
		t.Errorf("InsightOptions = %+v", got)
	}
	if got := cfg.ScoreOptions(); got.CommentWeight != 2 || got.UrgencyMultiplier != 10 {
		t.Errorf("ScoreOptions = %+v", got)
	}
}
