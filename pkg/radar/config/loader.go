package config

import (
	"fmt"

	"github.com/cognicore/radar/pkg/radar/extract"
	"github.com/cognicore/radar/pkg/radar/ingest"
	"github.com/cognicore/radar/pkg/radar/lexicon"
	"github.com/cognicore/radar/pkg/radar/score"
	"github.com/cognicore/radar/pkg/radar/sentiment"
	"github.com/cognicore/radar/pkg/radar/stoplist"
	"github.com/cognicore/radar/pkg/radar/trend"
)

// Loader loads all configuration files and constructs components
type Loader struct {
	ConfigPath   string // pipeline YAML; empty uses Default
	StoplistPath string // extra stopwords (terms: [...])
	LexiconPath  string // extra lemma groups (lemmas: [...])
}

// Components holds all loaded configuration components
type Components struct {
	Config      *Config
	Tokenizer   *ingest.Tokenizer
	Parser      *ingest.PhraseParser
	Extractor   *extract.Extractor
	Taxonomy    *ingest.Taxonomy
	Scorer      *score.Scorer
	Sentiment   *sentiment.Analyzer
	Granularity trend.Granularity
}

// Load reads all configuration files and returns initialized components
func (l *Loader) Load() (*Components, error) {
	cfg := Default()
	if l.ConfigPath != "" {
		loaded, err := Load(l.ConfigPath)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}

	if l.StoplistPath != "" {
		sl, err := LoadStoplist(l.StoplistPath)
		if err != nil {
			return nil, fmt.Errorf("load stoplist: %w", err)
		}
		cfg.Stopwords = append(cfg.Stopwords, sl.Terms...)
	}

	lex := lexicon.English()
	if l.LexiconPath != "" {
		loaded, err := lexicon.LoadFromYAML(l.LexiconPath)
		if err != nil {
			return nil, fmt.Errorf("load lexicon: %w", err)
		}
		lex = loaded
	}

	return cfg.build(lex)
}

// Components validates the configuration and builds the runtime components.
func (c *Config) Components() (*Components, error) {
	return c.build(lexicon.English())
}

func (c *Config) build(lex *lexicon.Lexicon) (*Components, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	for _, g := range c.Lexicon {
		lex.AddGroup(g.Canonical, g.Variants)
	}
	tokenizer := ingest.NewTokenizer(stoplist.NewEnglishManager(c.Stopwords...), lex)

	extractor, err := extract.NewExtractor([]extract.Indicator{
		{Category: extract.Pain, Phrases: c.Indicators.Pain},
		{Category: extract.Solution, Phrases: c.Indicators.Solution},
		{Category: extract.Idea, Phrases: c.Indicators.Idea},
	})
	if err != nil {
		return nil, err
	}

	scorer, err := score.NewScorer(c.Scoring.Weights, c.Scoring.Terms, c.ScoreOptions())
	if err != nil {
		return nil, err
	}

	granularity, err := trend.ParseGranularity(c.Trend.Granularity)
	if err != nil {
		return nil, err
	}

	return &Components{
		Config:      c,
		Tokenizer:   tokenizer,
		Parser:      ingest.NewPhraseParser(c.Phrases, tokenizer.Tokenize),
		Extractor:   extractor,
		Taxonomy:    ingest.NewTaxonomy(c.Categories),
		Scorer:      scorer,
		Sentiment:   sentiment.NewEnglish(),
		Granularity: granularity,
	}, nil
}
