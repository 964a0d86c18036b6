package config

import (
	"github.com/cognicore/radar/pkg/radar/cluster"
	"github.com/cognicore/radar/pkg/radar/ingest"
	"github.com/cognicore/radar/pkg/radar/insight"
	"github.com/cognicore/radar/pkg/radar/score"
	"github.com/cognicore/radar/pkg/radar/trend"
)

// Default returns the built-in configuration.
func Default() *Config {
	opts := score.DefaultOptions()
	return &Config{
		Indicators: Indicators{
			Pain: []string{
				"struggling with", "frustrated with", "tired of", "sick of",
				"hate when", "hate that", "annoyed by", "problem with",
				"issue with", "pain point", "difficult to", "hard to",
				"can't find", "wish there was",
			},
			Solution: []string{
				"looking for", "is there a", "is there an", "does anyone know",
				"can anyone recommend", "need a", "need an", "recommend a",
				"alternative to", "how do i", "best way to",
			},
			Idea: []string{
				"someone should build", "someone should make", "app idea:",
				"idea for", "it would be great if", "would be nice if",
				"would pay for", "i would love", "why isn't there",
			},
		},
		Categories: []ingest.Category{
			{Name: "software", Keywords: []string{"software", "app", "code", "developer", "api", "bug", "programming", "saas"}},
			{Name: "productivity", Keywords: []string{"productivity", "task", "todo", "calendar", "notes", "workflow", "project management", "focus"}},
			{Name: "finance", Keywords: []string{"money", "budget", "invoice", "tax", "bank", "investing", "accounting", "expense"}},
			{Name: "health", Keywords: []string{"health", "fitness", "workout", "sleep", "diet", "nutrition", "therapy", "gym"}},
			{Name: "education", Keywords: []string{"learn", "learning", "course", "study", "student", "teacher", "school", "tutor"}},
			{Name: "entertainment", Keywords: []string{"game", "gaming", "movie", "music", "stream", "podcast", "video"}},
			{Name: "social", Keywords: []string{"friends", "community", "social", "dating", "chat", "network"}},
			{Name: "ecommerce", Keywords: []string{"shop", "store", "ecommerce", "shopify", "product", "shipping", "seller"}},
		},
		SimilarityThreshold: insight.DefaultThreshold,
		MaxInsights:         insight.DefaultMaxInsights,
		MaxExamples:         insight.DefaultMaxExamples,
		Clustering: Clustering{
			K:             cluster.DefaultK,
			MaxFeatures:   cluster.DefaultMaxFeatures,
			MinDF:         cluster.DefaultMinDF,
			MaxDF:         cluster.DefaultMaxDF,
			Seed:          cluster.DefaultSeed,
			MaxIterations: cluster.DefaultMaxIterations,
		},
		Trend: Trend{Granularity: string(trend.Month)},
		Scoring: Scoring{
			Weights: score.DefaultWeights(),
			Terms: score.Terms{
				Monetization: []string{
					"pay", "paid", "paying", "price", "pricing", "subscription", "buy",
					"purchase", "cost", "per month", "worth it", "premium", "license",
				},
				Urgency: []string{
					"urgent", "urgently", "asap", "immediately", "desperately", "now",
					"critical", "deadline", "need", "every day", "can't wait",
				},
				Market: []string{
					"everyone", "everybody", "millions", "businesses", "companies",
					"teams", "industry", "most people", "all of us", "common",
				},
				Competition: []string{
					"alternative", "alternatives", "competitor", "competitors",
					"already exists", "already using", "switched to", "instead of",
				},
			},
			Multipliers: Multipliers{
				Monetization: opts.MonetizationMultiplier,
				Urgency:      opts.UrgencyMultiplier,
				Market:       opts.MarketMultiplier,
				Competition:  opts.CompetitionMultiplier,
			},
			PunctuationWeight: opts.PunctuationWeight,
			CommentWeight:     opts.CommentWeight,
			EngagementDivisor: opts.EngagementDivisor,
			MentionDivisor:    opts.MentionDivisor,
			GrowthWeight:      opts.GrowthWeight,
		},
	}
}
