// Package sentiment scores text polarity in [-1,1] from word lexicons.
package sentiment

import (
	"math"
	"strings"
	"unicode"
)

// normAlpha bounds the raw sum into [-1,1]; larger values flatten the curve.
const normAlpha = 15

// Analyzer is a lexicon-based polarity scorer with negation and intensifier
// handling. It is immutable after construction and safe for concurrent use.
type Analyzer struct {
	words        map[string]float64
	negators     map[string]struct{}
	intensifiers map[string]float64
}

// Lexicon holds the word lists an Analyzer is built from.
type Lexicon struct {
	Positive     []string
	Negative     []string
	Negators     []string
	Intensifiers map[string]float64
}

// New builds an analyzer. Positive words score +1 and negative words -1.
func New(lex Lexicon) *Analyzer {
	a := &Analyzer{
		words:        make(map[string]float64, len(lex.Positive)+len(lex.Negative)),
		negators:     make(map[string]struct{}, len(lex.Negators)),
		intensifiers: make(map[string]float64, len(lex.Intensifiers)),
	}
	for _, w := range lex.Positive {
		a.words[strings.ToLower(w)] = 1
	}
	for _, w := range lex.Negative {
		a.words[strings.ToLower(w)] = -1
	}
	for _, w := range lex.Negators {
		a.negators[strings.ToLower(w)] = struct{}{}
	}
	for w, m := range lex.Intensifiers {
		a.intensifiers[strings.ToLower(w)] = m
	}
	return a
}

// NewEnglish returns an analyzer with the built-in English word lists.
func NewEnglish() *Analyzer {
	return New(English())
}

// English returns the built-in English lexicon.
func English() Lexicon {
	return Lexicon{
		Positive: []string{
			"good", "great", "love", "loved", "like", "nice", "awesome", "amazing",
			"excellent", "easy", "helpful", "useful", "happy", "best", "better",
			"fast", "simple", "clean", "reliable", "affordable", "cheap", "free",
			"perfect", "fantastic", "wonderful", "enjoy", "recommend", "works",
			"intuitive", "smooth", "powerful", "cool", "glad", "worth",
		},
		Negative: []string{
			"bad", "terrible", "awful", "hate", "hated", "annoying", "annoyed",
			"frustrating", "frustrated", "struggling", "struggle", "difficult",
			"hard", "slow", "expensive", "broken", "buggy", "confusing", "painful",
			"pain", "worst", "worse", "useless", "clunky", "tedious", "problem",
			"problems", "issue", "issues", "fail", "fails", "failed", "crash",
			"crashes", "impossible", "overpriced", "tired", "sucks", "horrible",
			"wish", "missing", "lacking", "stuck", "nightmare",
		},
		Negators: []string{
			"not", "no", "never", "dont", "don't", "doesnt", "doesn't", "isnt",
			"isn't", "cant", "can't", "cannot", "wont", "won't", "without", "hardly",
		},
		Intensifiers: map[string]float64{
			"very": 1.5, "really": 1.5, "so": 1.3, "too": 1.3, "extremely": 2,
			"super": 1.5, "incredibly": 2, "totally": 1.5, "absolutely": 1.8,
			"quite": 1.2, "slightly": 0.5, "somewhat": 0.7,
		},
	}
}

// Score returns the polarity of text in [-1,1]. Text without any lexicon
// word scores 0. A negator within the three preceding words flips a word's
// polarity; an intensifier directly before it scales it.
func (a *Analyzer) Score(text string) float64 {
	tokens := tokenize(text)
	sum := 0.0
	for i, tok := range tokens {
		v, ok := a.words[tok]
		if !ok {
			continue
		}
		if i > 0 {
			if m, ok := a.intensifiers[tokens[i-1]]; ok {
				v *= m
			}
		}
		for j := max(0, i-3); j < i; j++ {
			if _, ok := a.negators[tokens[j]]; ok {
				v = -v * 0.5
				break
			}
		}
		sum += v
	}

	if sum == 0 {
		return 0
	}
	score := sum / math.Sqrt(sum*sum+normAlpha)
	return math.Max(-1, math.Min(1, score))
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && r != '\''
	})
}
