// Package extract finds indicator phrases ("struggling with", "looking for",
// "someone should build") in raw text and captures the clause that follows.
package extract

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/cognicore/radar/pkg/radar/internalerr"
)

// Category is an indicator category.
type Category string

const (
	Pain     Category = "pain"
	Solution Category = "solution"
	Idea     Category = "idea"
)

// Categories lists the indicator categories in output order.
var Categories = []Category{Pain, Solution, Idea}

// Clause length bounds, in characters.
const (
	MinClauseLen = 3
	MaxClauseLen = 100
)

// Indicator binds a category to its ordered trigger phrases.
type Indicator struct {
	Category Category
	Phrases  []string
}

// Mention is one captured clause.
type Mention struct {
	Text       string // lowercased, trimmed clause
	Raw        string // clause as written
	Category   Category
	Phrase     string
	DocumentID string
	Timestamp  time.Time
	Ordinal    int // emission order within the document
}

type trigger struct {
	phrase  string
	pattern *regexp.Regexp
}

type compiled struct {
	category Category
	triggers []trigger
}

// Extractor matches indicator phrases against document text.
type Extractor struct {
	indicators []compiled
}

// NewExtractor compiles one pattern per trigger phrase. Blank phrases or
// unknown categories are configuration errors.
func NewExtractor(indicators []Indicator) (*Extractor, error) {
	e := &Extractor{indicators: make([]compiled, 0, len(indicators))}
	for _, ind := range indicators {
		if !validCategory(ind.Category) {
			return nil, fmt.Errorf("%w: unknown indicator category %q", internalerr.ErrInvalidConfig, ind.Category)
		}
		c := compiled{category: ind.Category}
		for _, phrase := range ind.Phrases {
			phrase = strings.TrimSpace(phrase)
			if phrase == "" {
				return nil, fmt.Errorf("%w: blank trigger phrase in %s", internalerr.ErrInvalidConfig, ind.Category)
			}
			c.triggers = append(c.triggers, trigger{phrase: strings.ToLower(phrase), pattern: phrasePattern(phrase)})
		}
		e.indicators = append(e.indicators, c)
	}
	return e, nil
}

// phrasePattern matches the phrase case-insensitively, then spaces or tabs
// on the same line, then the shortest clause of 3–100 characters that runs up to a period, comma,
// newline or the end of the text.
func phrasePattern(phrase string) *regexp.Regexp {
	var b strings.Builder
	b.WriteString(`(?i)`)
	if r, _ := utf8.DecodeRuneInString(phrase); isWord(r) {
		b.WriteString(`\b`)
	}
	b.WriteString(regexp.QuoteMeta(phrase))
	fmt.Fprintf(&b, `[^\S\n]+([^.,\n]{%d,%d}?)\s*(?:[.,\n]|$)`, MinClauseLen, MaxClauseLen)
	return regexp.MustCompile(b.String())
}

// Extract returns the mentions of every category found in text.
func (e *Extractor) Extract(docID string, ts time.Time, text string) []Mention {
	var out []Mention
	for _, ind := range e.indicators {
		out = append(out, e.extract(ind, docID, ts, text, len(out))...)
	}
	return out
}

// ExtractCategory returns only the mentions of one category.
func (e *Extractor) ExtractCategory(cat Category, docID string, ts time.Time, text string) []Mention {
	var out []Mention
	for _, ind := range e.indicators {
		if ind.category == cat {
			out = append(out, e.extract(ind, docID, ts, text, len(out))...)
		}
	}
	return out
}

// extract emits at most one mention per trigger phrase (its first match) and
// collapses identical clause text; the earlier phrase keeps the mention.
func (e *Extractor) extract(ind compiled, docID string, ts time.Time, text string, ordinal int) []Mention {
	if text == "" {
		return nil
	}

	var out []Mention
	seen := make(map[string]struct{})
	for _, tr := range ind.triggers {
		loc := tr.pattern.FindStringSubmatchIndex(text)
		if loc == nil {
			continue
		}
		raw := strings.TrimSpace(text[loc[2]:loc[3]])
		if utf8.RuneCountInString(raw) < MinClauseLen {
			continue
		}
		normalized := strings.ToLower(raw)
		if _, dup := seen[normalized]; dup {
			continue
		}
		seen[normalized] = struct{}{}
		out = append(out, Mention{
			Text:       normalized,
			Raw:        raw,
			Category:   ind.category,
			Phrase:     tr.phrase,
			DocumentID: docID,
			Timestamp:  ts,
			Ordinal:    ordinal + len(out),
		})
	}
	return out
}

func validCategory(c Category) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

func isWord(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
