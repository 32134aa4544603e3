package service

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/jonboulle/clockwork"
	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/mmcdole/tubegrab/internal/domain"
)

// historyStore is the persistence the history service needs (consumer-defined interface)
type historyStore interface {
	GetHistory() ([]domain.HistoryEntry, bool)
	SaveHistory(entries []domain.HistoryEntry) error
}

// HistoryService keeps the bounded, newest-first download history
type HistoryService struct {
	store  historyStore
	clock  clockwork.Clock
	logger *slog.Logger

	mu sync.Mutex // serializes read-modify-write
}

// NewHistoryService creates a new history service
func NewHistoryService(store historyStore, clock clockwork.Clock, logger *slog.Logger) *HistoryService {
	if logger == nil {
		logger = slog.Default()
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &HistoryService{store: store, clock: clock, logger: logger}
}

// Append stamps entry with the current time, prepends it and truncates the
// list to domain.MaxHistoryEntries. The stored entry is returned.
func (s *HistoryService) Append(entry domain.HistoryEntry) (domain.HistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	entry.ID = now.UnixMilli()
	entry.Timestamp = now

	entries := s.load()
	// Keep ids unique when two downloads finish within the same millisecond
	if len(entries) > 0 && entry.ID <= entries[0].ID {
		entry.ID = entries[0].ID + 1
	}

	entries = append([]domain.HistoryEntry{entry}, entries...)
	if len(entries) > domain.MaxHistoryEntries {
		entries = entries[:domain.MaxHistoryEntries]
	}

	if err := s.store.SaveHistory(entries); err != nil {
		s.logger.Error("failed to save history", "error", err)
		return entry, fmt.Errorf("save history: %w", err)
	}
	s.logger.Info("history entry added", "title", entry.Title, "count", len(entries))
	return entry, nil
}

// List returns the history, newest first
func (s *HistoryService) List() []domain.HistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Count returns the number of history entries
func (s *HistoryService) Count() int {
	return len(s.List())
}

// Clear removes every history entry
func (s *HistoryService) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.SaveHistory([]domain.HistoryEntry{}); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	s.logger.Info("history cleared")
	return nil
}

// Search returns entries whose title or URL fuzzy-matches query, best match
// first and newest first among equal matches. An empty query returns all entries.
func (s *HistoryService) Search(query string) []domain.HistoryEntry {
	entries := s.List()
	query = strings.TrimSpace(query)
	if query == "" {
		return entries
	}

	titles := make([]string, len(entries))
	urls := make([]string, len(entries))
	for i, e := range entries {
		titles[i] = e.Title
		urls[i] = e.URL
	}

	best := make(map[int]int)
	collect := func(ranks fuzzy.Ranks) {
		for _, r := range ranks {
			if d, ok := best[r.OriginalIndex]; !ok || r.Distance < d {
				best[r.OriginalIndex] = r.Distance
			}
		}
	}
	collect(fuzzy.RankFindFold(query, titles))
	collect(fuzzy.RankFindFold(query, urls))

	indexes := make([]int, 0, len(best))
	for i := range best {
		indexes = append(indexes, i)
	}
	// Sort by score (lower is better), then recency
	sort.Slice(indexes, func(a, b int) bool {
		da, db := best[indexes[a]], best[indexes[b]]
		if da != db {
			return da < db
		}
		return indexes[a] < indexes[b]
	})

	results := make([]domain.HistoryEntry, len(indexes))
	for i, idx := range indexes {
		results[i] = entries[idx]
	}
	return results
}

// load reads the list, falling back to empty on a missing or unreadable value
func (s *HistoryService) load() []domain.HistoryEntry {
	entries, ok := s.store.GetHistory()
	if !ok || entries == nil {
		return []domain.HistoryEntry{}
	}
	return entries
}
