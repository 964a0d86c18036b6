package analytics

import (
	"math"
	"sort"
)

// Analyzer aggregates corpus-level token statistics for vectorization.
type Analyzer struct {
	totalDocs int64
	tokenDF   map[string]int64 // documents containing the token
	tokenTF   map[string]int64 // occurrences across the corpus
}

// NewAnalyzer creates an empty analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{
		tokenDF: make(map[string]int64),
		tokenTF: make(map[string]int64),
	}
}

// Process consumes one document's tokens.
func (a *Analyzer) Process(tokens []string) {
	a.totalDocs++

	seen := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		if tok == "" {
			continue
		}
		a.tokenTF[tok]++
		if _, ok := seen[tok]; ok {
			continue
		}
		seen[tok] = struct{}{}
		a.tokenDF[tok]++
	}
}

// Stats exposes the aggregated counts.
type Stats struct {
	TotalDocs int64
	TokenDF   map[string]int64
	TokenTF   map[string]int64
}

// Snapshot returns a copy of the accumulated statistics.
func (a *Analyzer) Snapshot() Stats {
	copyDF := make(map[string]int64, len(a.tokenDF))
	for tok, count := range a.tokenDF {
		copyDF[tok] = count
	}
	copyTF := make(map[string]int64, len(a.tokenTF))
	for tok, count := range a.tokenTF {
		copyTF[tok] = count
	}
	return Stats{
		TotalDocs: a.totalDocs,
		TokenDF:   copyDF,
		TokenTF:   copyTF,
	}
}

// TermStat describes one vocabulary candidate.
type TermStat struct {
	Token string
	DF    int64
	TF    int64
}

// TopTerms returns up to limit tokens whose document frequency lies within
// [minDF, maxDFRatio·TotalDocs], ordered by corpus frequency (desc) then token.
// limit <= 0 returns every qualifying token.
func (s Stats) TopTerms(limit int, minDF int64, maxDFRatio float64) []TermStat {
	if s.TotalDocs == 0 {
		return nil
	}
	maxDF := int64(math.Floor(maxDFRatio * float64(s.TotalDocs)))
	if maxDFRatio >= 1 {
		maxDF = s.TotalDocs
	}

	var out []TermStat
	for tok, df := range s.TokenDF {
		if df < minDF || df > maxDF {
			continue
		}
		out = append(out, TermStat{Token: tok, DF: df, TF: s.TokenTF[tok]})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].TF == out[j].TF {
			return out[i].Token < out[j].Token
		}
		return out[i].TF > out[j].TF
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// IDF returns the smoothed inverse document frequency ln((1+N)/(1+df)) + 1.
func (s Stats) IDF(token string) float64 {
	df := s.TokenDF[token]
	return math.Log(float64(1+s.TotalDocs)/float64(1+df)) + 1
}
