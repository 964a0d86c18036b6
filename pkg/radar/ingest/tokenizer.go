package ingest

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/cognicore/radar/pkg/radar/lexicon"
	"github.com/cognicore/radar/pkg/radar/stoplist"
)

// MinTokenLen is the shortest token kept by the tokenizer.
const MinTokenLen = 3

var urlPattern = regexp.MustCompile(`(?i)(?:https?://|www\.)\S+`)

// Tokenizer handles text tokenization and normalization
type Tokenizer struct {
	stops   *stoplist.Manager
	lexicon *lexicon.Lexicon
}

// NewTokenizer creates a tokenizer. A nil stoplist disables stop-word
// removal and a nil lexicon falls back to the built-in English lemmas.
func NewTokenizer(stops *stoplist.Manager, lex *lexicon.Lexicon) *Tokenizer {
	if stops == nil {
		stops = stoplist.NewManager(nil)
	}
	if lex == nil {
		lex = lexicon.English()
	}
	return &Tokenizer{stops: stops, lexicon: lex}
}

// Tokenize turns raw text into base-form content tokens: URLs are removed,
// accents folded, anything that is not a letter splits tokens, case is
// folded, stopwords dropped, tokens lemmatized and short tokens discarded.
// Empty input yields an empty slice.
func (t *Tokenizer) Tokenize(text string) []string {
	if strings.TrimSpace(text) == "" {
		return []string{}
	}

	text = urlPattern.ReplaceAllString(text, " ")
	text = foldAccents(text)

	tokens := []string{}
	var current strings.Builder

	flush := func() {
		if current.Len() == 0 {
			return
		}
		if word := t.processToken(current.String()); word != "" {
			tokens = append(tokens, word)
		}
		current.Reset()
	}

	for _, r := range text {
		if unicode.IsLetter(r) {
			current.WriteRune(unicode.ToLower(r))
		} else {
			flush()
		}
	}
	flush()

	return tokens
}

// processToken applies stopword filtering, lemmatization and the length floor.
func (t *Tokenizer) processToken(word string) string {
	if t.stops.IsStop(word) {
		return ""
	}

	word = t.lexicon.Lemma(word)
	if len([]rune(word)) < MinTokenLen || t.stops.IsStop(word) {
		return ""
	}

	return word
}

// IsStopword reports whether the tokenizer drops word.
func (t *Tokenizer) IsStopword(word string) bool {
	return t.stops.IsStop(strings.ToLower(word))
}

// foldAccents strips combining marks so "café" and "cafe" tokenize alike.
func foldAccents(s string) string {
	tr := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(tr, s)
	if err != nil {
		return s
	}
	return out
}
