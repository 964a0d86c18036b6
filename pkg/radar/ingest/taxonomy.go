package ingest

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// OtherCategory is assigned when no category keyword matches.
const OtherCategory = "other"

// Category is a named keyword list
type Category struct {
	Name     string   `yaml:"name" json:"name"`
	Keywords []string `yaml:"keywords" json:"keywords"`
}

// Taxonomy is an ordered keyword-to-category table. Order decides ties.
type Taxonomy struct {
	categories []Category
}

// NewTaxonomy creates a taxonomy; keywords are lowercased.
func NewTaxonomy(categories []Category) *Taxonomy {
	t := &Taxonomy{categories: make([]Category, 0, len(categories))}
	for _, c := range categories {
		t.categories = append(t.categories, Category{Name: c.Name, Keywords: lowerAll(c.Keywords)})
	}
	return t
}

// Names returns category names in table order.
func (t *Taxonomy) Names() []string {
	names := make([]string, len(t.categories))
	for i, c := range t.categories {
		names[i] = c.Name
	}
	return names
}

// Hits returns the keyword-hit count of every category for text, in table order.
func (t *Taxonomy) Hits(text string) []int {
	lower := strings.ToLower(text)
	hits := make([]int, len(t.categories))
	for i, c := range t.categories {
		hits[i] = CountHits(lower, c.Keywords)
	}
	return hits
}

// Assign picks the category with the most keyword hits in text. The first
// category in table order wins ties; OtherCategory is returned when nothing matches.
func (t *Taxonomy) Assign(text string) string {
	best, bestHits := OtherCategory, 0
	for i, h := range t.Hits(text) {
		if h > bestHits {
			best, bestHits = t.categories[i].Name, h
		}
	}
	return best
}

// CountHits counts whole-word occurrences of every term in lowercase text.
// Terms may span several words ("per month").
func CountHits(text string, terms []string) int {
	total := 0
	for _, term := range terms {
		if term == "" {
			continue
		}
		from := 0
		for from < len(text) {
			idx := strings.Index(text[from:], term)
			if idx < 0 {
				break
			}
			start := from + idx
			end := start + len(term)
			if wordBoundaryBefore(text, start) && wordBoundaryAfter(text, end) {
				total++
			}
			from = end
		}
	}
	return total
}

func wordBoundaryBefore(s string, i int) bool {
	if i == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(s[:i])
	return !isWordRune(r)
}

func wordBoundaryAfter(s string, i int) bool {
	if i >= len(s) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(s[i:])
	return !isWordRune(r)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
