package stoplist

import (
	"sort"
	"strings"
)

// english is the built-in English stop-word list. It follows the NLTK list
// plus a few forum fillers ("lol", "edit", "anyone").
var english = []string{
	"a", "about", "above", "after", "again", "against", "ain", "all", "also", "am", "an", "and",
	"any", "anyone", "anything", "are", "aren", "as", "at", "be", "because", "been", "before",
	"being", "below", "between", "both", "but", "by", "can", "could", "couldn", "did", "didn",
	"do", "does", "doesn", "doing", "don", "down", "during", "each", "edit", "else", "etc",
	"even", "ever", "every", "few", "for", "from", "further", "get", "gets", "getting", "got",
	"had", "hadn", "has", "hasn", "have", "haven", "having", "he", "her", "here", "hers",
	"herself", "him", "himself", "his", "how", "i", "if", "in", "into", "is", "isn", "it",
	"its", "itself", "just", "like", "lol", "ll", "ma", "me", "might", "mightn", "more",
	"most", "much", "must", "mustn", "my", "myself", "needn", "no", "nor", "not", "now",
	"of", "off", "on", "once", "one", "only", "or", "other", "our", "ours", "ourselves",
	"out", "over", "own", "really", "re", "same", "shan", "she", "should", "shouldn", "so",
	"some", "someone", "something", "still", "such", "than", "that", "the", "their",
	"theirs", "them", "themselves", "then", "there", "these", "they", "thing", "things",
	"this", "those", "through", "to", "too", "under", "until", "up", "us", "ve", "very",
	"was", "wasn", "we", "were", "weren", "what", "when", "where", "which", "while", "who",
	"whom", "why", "will", "with", "won", "would", "wouldn", "yeah", "yet", "you", "your",
	"yours", "yourself", "yourselves",
}

// English returns a copy of the built-in English stop-word list.
func English() []string {
	out := make([]string, len(english))
	copy(out, english)
	return out
}

// Manager holds the active stop-word set
type Manager struct {
	stops map[string]struct{}
}

// NewManager creates a new stoplist manager. Terms are case-folded.
func NewManager(initialStops []string) *Manager {
	stops := make(map[string]struct{}, len(initialStops))
	for _, s := range initialStops {
		stops[strings.ToLower(s)] = struct{}{}
	}
	return &Manager{stops: stops}
}

// NewEnglishManager creates a manager seeded with the English list plus extra terms.
func NewEnglishManager(extra ...string) *Manager {
	m := NewManager(english)
	for _, s := range extra {
		m.Add(s)
	}
	return m
}

// IsStop checks if a token is a stopword
func (m *Manager) IsStop(token string) bool {
	_, ok := m.stops[token]
	return ok
}

// Add adds a token to the stoplist
func (m *Manager) Add(token string) {
	m.stops[strings.ToLower(token)] = struct{}{}
}

// Remove removes a token from the stoplist
func (m *Manager) Remove(token string) {
	delete(m.stops, strings.ToLower(token))
}

// Len returns the number of stopwords.
func (m *Manager) Len() int {
	return len(m.stops)
}

// All returns all stopwords in sorted order
func (m *Manager) All() []string {
	result := make([]string, 0, len(m.stops))
	for s := range m.stops {
		result = append(result, s)
	}
	sort.Strings(result)
	return result
}
