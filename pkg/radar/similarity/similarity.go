// Package similarity provides the TextSimilarity capability used to group
// near-duplicate mentions, plus lexical implementations of it.
package similarity

import (
	"strings"
	"unicode"
)

// TextSimilarity scores how alike two texts are, in [0,1].
// Implementations must be deterministic and safe for concurrent use.
type TextSimilarity interface {
	Score(a, b string) float64
}

// Func adapts a plain function to TextSimilarity. Results are clamped to [0,1].
type Func func(a, b string) float64

// Score implements TextSimilarity.
func (f Func) Score(a, b string) float64 {
	return clamp(f(a, b))
}

// Dice is the Sørensen–Dice coefficient over character bigrams of the
// case-folded, whitespace-collapsed texts. It tolerates small wording changes
// ("tool" vs "tools") better than word overlap.
type Dice struct{}

// Score implements TextSimilarity.
func (Dice) Score(a, b string) float64 {
	a, b = squash(a), squash(b)
	if a == b {
		return 1
	}
	ba, bb := bigrams(a), bigrams(b)
	if len(ba) == 0 || len(bb) == 0 {
		return 0
	}

	total := 0
	for _, n := range ba {
		total += n
	}
	for _, n := range bb {
		total += n
	}

	shared := 0
	for g, n := range ba {
		if m, ok := bb[g]; ok {
			shared += min(n, m)
		}
	}

	return clamp(2 * float64(shared) / float64(total))
}

// Jaccard is the ratio of shared words to all distinct words.
type Jaccard struct{}

// Score implements TextSimilarity.
func (Jaccard) Score(a, b string) float64 {
	wa, wb := words(a), words(b)
	if len(wa) == 0 && len(wb) == 0 {
		return 1
	}

	inter := 0
	for w := range wa {
		if _, ok := wb[w]; ok {
			inter++
		}
	}
	union := len(wa) + len(wb) - inter
	if union == 0 {
		return 0
	}
	return clamp(float64(inter) / float64(union))
}

// Default returns the similarity used when none is injected.
func Default() TextSimilarity {
	return Dice{}
}

func squash(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

func bigrams(s string) map[string]int {
	r := []rune(s)
	out := make(map[string]int, len(r))
	for i := 0; i+1 < len(r); i++ {
		out[string(r[i:i+2])]++
	}
	return out
}

func words(s string) map[string]struct{} {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	out := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		out[f] = struct{}{}
	}
	return out
}

func clamp(v float64) float64 {
	switch {
	case v != v, v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
