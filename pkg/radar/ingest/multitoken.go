package ingest

import "strings"

// PhraseParser joins configured multi-word phrases into single vocabulary
// terms after tokenization ("project management" → "project management").
type PhraseParser struct {
	dict   map[string]string // token key → canonical term
	maxLen int
}

// PhraseEntry is one canonical phrase with its spelling variants
type PhraseEntry struct {
	Canonical string   `yaml:"canonical" json:"canonical"`
	Variants  []string `yaml:"variants" json:"variants"`
}

// NewPhraseParser creates a parser. Every canonical form and variant is run
// through tokenize so keys line up with the tokens produced for documents.
func NewPhraseParser(entries []PhraseEntry, tokenize func(string) []string) *PhraseParser {
	p := &PhraseParser{dict: make(map[string]string), maxLen: 1}
	for _, e := range entries {
		canonical := strings.ToLower(strings.TrimSpace(e.Canonical))
		if canonical == "" {
			continue
		}
		for _, form := range append([]string{e.Canonical}, e.Variants...) {
			key := tokenize(form)
			if len(key) == 0 {
				continue
			}
			p.dict[strings.Join(key, " ")] = canonical
			if len(key) > p.maxLen {
				p.maxLen = len(key)
			}
		}
	}
	return p
}

// Len returns the number of phrase keys.
func (p *PhraseParser) Len() int {
	return len(p.dict)
}

// Parse applies greedy longest-match to recognize multi-token phrases
func (p *PhraseParser) Parse(tokens []string) []string {
	if len(p.dict) == 0 {
		return tokens
	}

	result := make([]string, 0, len(tokens))
	i := 0
	for i < len(tokens) {
		maxPhrase := p.maxLen
		if remaining := len(tokens) - i; maxPhrase > remaining {
			maxPhrase = remaining
		}

		matched := false
		for n := maxPhrase; n >= 1; n-- {
			if canonical, ok := p.dict[strings.Join(tokens[i:i+n], " ")]; ok {
				result = append(result, canonical)
				i += n
				matched = true
				break
			}
		}
		if !matched {
			result = append(result, tokens[i])
			i++
		}
	}

	return result
}
