package memstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cognicore/radar/pkg/radar/internalerr"
	"github.com/cognicore/radar/pkg/radar/store"
)

// Store is an in-memory implementation of store.Store for tests.
type Store struct {
	mu      sync.RWMutex
	topics  []store.Topic
	byID    map[string]int
	lastRun store.Run
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{byID: make(map[string]int)}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// SaveRun replaces the current topic set.
func (s *Store) SaveRun(ctx context.Context, run store.Run) error {
	if strings.TrimSpace(run.ID) == "" {
		return fmt.Errorf("%w: run id is required", internalerr.ErrInvalidInput)
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}

	topics := make([]store.Topic, len(run.Topics))
	byID := make(map[string]int, len(run.Topics))
	for i, t := range run.Topics {
		cp, err := copyTopic(store.Topic{ID: store.NewID(), RunID: run.ID, Topic: t, UpdatedAt: run.CreatedAt.UTC()})
		if err != nil {
			return err
		}
		topics[i] = cp
		byID[cp.ID] = i
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.topics = topics
	s.byID = byID
	s.lastRun = store.Run{ID: run.ID, CreatedAt: run.CreatedAt.UTC(), Documents: run.Documents}
	return nil
}

// Topics lists topics matching the filter.
func (s *Store) Topics(ctx context.Context, f store.Filter) ([]store.Topic, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []store.Topic{}
	for _, t := range s.topics {
		if !f.Match(t) {
			continue
		}
		cp, err := copyTopic(t)
		if err != nil {
			return nil, err
		}
		out = append(out, cp)
	}

	store.SortTopics(out, f.Order)
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

// Topic returns a topic by ID.
func (s *Store) Topic(ctx context.Context, id string) (store.Topic, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.byID[id]
	if !ok {
		return store.Topic{}, fmt.Errorf("%w: topic %s", internalerr.ErrNotFound, id)
	}
	return copyTopic(s.topics[i])
}

// Categories returns the sorted distinct categories.
func (s *Store) Categories(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	cats := []string{}
	for _, t := range s.topics {
		if _, ok := seen[t.Category]; ok {
			continue
		}
		seen[t.Category] = struct{}{}
		cats = append(cats, t.Category)
	}
	sort.Strings(cats)
	return cats, nil
}

// Stats summarizes the current topics.
func (s *Store) Stats(ctx context.Context) (store.Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := store.Summarize(s.topics)
	stats.LastRunID = s.lastRun.ID
	stats.LastRunAt = s.lastRun.CreatedAt
	return stats, nil
}

// MarketAnalysis breaks the current topics down by category and period.
func (s *Store) MarketAnalysis(ctx context.Context) (store.MarketAnalysis, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return store.Analyze(s.topics), nil
}

// copyTopic deep-copies through JSON, the same encoding the sqlite store uses.
func copyTopic(t store.Topic) (store.Topic, error) {
	data, err := json.Marshal(t)
	if err != nil {
		return store.Topic{}, err
	}
	var out store.Topic
	if err := json.Unmarshal(data, &out); err != nil {
		return store.Topic{}, err
	}
	return out, nil
}
