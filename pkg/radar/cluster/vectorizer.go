package cluster

import (
	"math"

	"github.com/cognicore/radar/pkg/radar/analytics"
)

// Vectorizer maps token sequences onto a fixed TF-IDF vocabulary.
type Vectorizer struct {
	terms []string
	index map[string]int
	idf   []float64
}

// FitVectorizer builds the vocabulary from the corpus: the maxFeatures most
// frequent tokens whose document frequency lies in [minDF, maxDF·N]. When the
// bounds leave nothing (tiny corpora) they are relaxed to every token.
func FitVectorizer(docs [][]string, maxFeatures, minDF int, maxDF float64) *Vectorizer {
	a := analytics.NewAnalyzer()
	for _, tokens := range docs {
		a.Process(tokens)
	}
	stats := a.Snapshot()

	top := stats.TopTerms(maxFeatures, int64(minDF), maxDF)
	if len(top) == 0 {
		top = stats.TopTerms(maxFeatures, 1, 1)
	}

	v := &Vectorizer{
		terms: make([]string, len(top)),
		index: make(map[string]int, len(top)),
		idf:   make([]float64, len(top)),
	}
	for i, ts := range top {
		v.terms[i] = ts.Token
		v.index[ts.Token] = i
		v.idf[i] = stats.IDF(ts.Token)
	}
	return v
}

// Terms returns the vocabulary in feature order.
func (v *Vectorizer) Terms() []string {
	return v.terms
}

// Len returns the vocabulary size.
func (v *Vectorizer) Len() int {
	return len(v.terms)
}

// Transform returns the L2-normalized TF-IDF vector of tokens. Tokens outside
// the vocabulary are ignored; a document without vocabulary terms maps to the
// zero vector.
func (v *Vectorizer) Transform(tokens []string) []float64 {
	vec := make([]float64, len(v.terms))
	for _, tok := range tokens {
		if i, ok := v.index[tok]; ok {
			vec[i]++
		}
	}

	var norm float64
	for i := range vec {
		vec[i] *= v.idf[i]
		norm += vec[i] * vec[i]
	}
	if norm == 0 {
		return vec
	}
	norm = math.Sqrt(norm)
	for i := range vec {
		vec[i] /= norm
	}
	return vec
}
