package lexicon

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Lexicon maps inflected word forms to their base (lemma) form.
//
// Two layers are consulted in order:
//   - explicit groups: irregular or domain forms (children → child, apps → app)
//   - plural rules: regular English noun inflections (companies → company)
//
// Only noun plurals are reduced by rule. Verb and adjective forms are left
// alone unless a group names them, which keeps cluster labels readable.
type Lexicon struct {
	// canonical -> all variants (including canonical itself)
	groups map[string][]string

	// variant -> canonical
	reverseIndex map[string]string
}

// New creates an empty lexicon.
func New() *Lexicon {
	return &Lexicon{
		groups:       make(map[string][]string),
		reverseIndex: make(map[string]string),
	}
}

// Group is one canonical form and the variants that reduce to it.
type Group struct {
	Canonical string   `yaml:"canonical"`
	Variants  []string `yaml:"variants"`
}

// English returns a lexicon seeded with common irregular English plurals.
func English() *Lexicon {
	lex := New()
	for _, g := range irregular {
		lex.AddGroup(g.Canonical, g.Variants)
	}
	return lex
}

var irregular = []Group{
	{Canonical: "child", Variants: []string{"children"}},
	{Canonical: "person", Variants: []string{"persons"}},
	{Canonical: "man", Variants: []string{"men"}},
	{Canonical: "woman", Variants: []string{"women"}},
	{Canonical: "mouse", Variants: []string{"mice"}},
	{Canonical: "foot", Variants: []string{"feet"}},
	{Canonical: "tooth", Variants: []string{"teeth"}},
	{Canonical: "goose", Variants: []string{"geese"}},
	{Canonical: "analysis", Variants: []string{"analyses"}},
	{Canonical: "criterion", Variants: []string{"criteria"}},
	{Canonical: "index", Variants: []string{"indices"}},
	{Canonical: "life", Variants: []string{"lives"}},
	{Canonical: "wife", Variants: []string{"wives"}},
	{Canonical: "knife", Variants: []string{"knives"}},
	{Canonical: "leaf", Variants: []string{"leaves"}},
	{Canonical: "half", Variants: []string{"halves"}},
	{Canonical: "shelf", Variants: []string{"shelves"}},
}

// LoadFromYAML loads lemma groups from a YAML file.
//
// Expected format:
//
//	lemmas:
//	  - canonical: app
//	    variants: [apps, application, applications]
func LoadFromYAML(path string) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var config struct {
		Lemmas []Group `yaml:"lemmas"`
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	lex := English()
	for _, g := range config.Lemmas {
		lex.AddGroup(g.Canonical, g.Variants)
	}
	return lex, nil
}

// AddGroup adds a canonical form and its variants.
// If the group already exists, old reverse index entries are cleaned up first.
func (l *Lexicon) AddGroup(canonical string, variants []string) {
	canonical = strings.ToLower(strings.TrimSpace(canonical))
	if canonical == "" {
		return
	}

	if old, exists := l.groups[canonical]; exists {
		for _, v := range old {
			delete(l.reverseIndex, v)
		}
	}

	normalized := []string{canonical}
	seen := map[string]bool{canonical: true}
	for _, v := range variants {
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "" || seen[v] {
			continue
		}
		normalized = append(normalized, v)
		seen[v] = true
	}

	l.groups[canonical] = normalized
	for _, v := range normalized {
		l.reverseIndex[v] = canonical
	}
}

// Normalize returns the canonical form recorded for a token, or the token itself.
func (l *Lexicon) Normalize(token string) string {
	token = strings.ToLower(token)
	if canonical, ok := l.reverseIndex[token]; ok {
		return canonical
	}
	return token
}

// Lemma reduces a lowercase token to its base form.
//
// Examples:
//   - Lemma("children") -> "child"
//   - Lemma("companies") -> "company"
//   - Lemma("boxes") -> "box"
//   - Lemma("tools") -> "tool"
//   - Lemma("business") -> "business"
func (l *Lexicon) Lemma(token string) string {
	if canonical, ok := l.reverseIndex[token]; ok {
		return canonical
	}
	base := singular(token)
	if canonical, ok := l.reverseIndex[base]; ok {
		return canonical
	}
	return base
}

// Variants returns all known variants of a token (including the canonical form).
func (l *Lexicon) Variants(token string) []string {
	token = strings.ToLower(token)
	if variants, ok := l.groups[token]; ok {
		return variants
	}
	if canonical, ok := l.reverseIndex[token]; ok {
		return l.groups[canonical]
	}
	return []string{token}
}

// Len returns the number of canonical groups.
func (l *Lexicon) Len() int {
	return len(l.groups)
}

func singular(w string) string {
	n := len(w)
	if n <= 3 {
		return w
	}
	switch {
	case strings.HasSuffix(w, "ss"), strings.HasSuffix(w, "us"), strings.HasSuffix(w, "is"):
		return w
	case strings.HasSuffix(w, "ies") && n > 4:
		return w[:n-3] + "y"
	case strings.HasSuffix(w, "sses"), strings.HasSuffix(w, "shes"), strings.HasSuffix(w, "ches"),
		strings.HasSuffix(w, "xes"), strings.HasSuffix(w, "zzes"):
		return w[:n-2]
	case strings.HasSuffix(w, "s"):
		return w[:n-1]
	}
	return w
}
