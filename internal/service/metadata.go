package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/mmcdole/tubegrab/internal/domain"
	"github.com/mmcdole/tubegrab/internal/validate"
)

const (
	defaultInfoCacheSize = 100
	defaultInfoCacheTTL  = time.Hour
)

// infoFetcher abstracts the metadata endpoint (consumer-defined interface)
type infoFetcher interface {
	GetInfo(ctx context.Context, url string) (*domain.VideoInfo, error)
}

type infoCacheEntry struct {
	info     domain.VideoInfo
	storedAt time.Time
	lastUsed time.Time
}

// MetadataService fetches video previews and remembers the last one shown
type MetadataService struct {
	api    infoFetcher
	clock  clockwork.Clock
	ttl    time.Duration
	size   int
	logger *slog.Logger

	mu    sync.Mutex
	cache map[string]*infoCacheEntry
	last  *domain.VideoInfo
}

// NewMetadataService creates a new metadata service
func NewMetadataService(api infoFetcher, clock clockwork.Clock, logger *slog.Logger) *MetadataService {
	if logger == nil {
		logger = slog.Default()
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &MetadataService{
		api:    api,
		clock:  clock,
		ttl:    defaultInfoCacheTTL,
		size:   defaultInfoCacheSize,
		logger: logger,
		cache:  make(map[string]*infoCacheEntry),
	}
}

// FetchInfo validates rawURL and returns its metadata. Invalid input never
// reaches the network; a cached preview younger than the TTL is reused.
func (s *MetadataService) FetchInfo(ctx context.Context, rawURL string) (*domain.VideoInfo, error) {
	url := strings.TrimSpace(rawURL)
	if err := validate.CheckURL(url); err != nil {
		return nil, err
	}

	if info, ok := s.cached(url); ok {
		s.logger.Debug("info cache hit", "url", url)
		return info, nil
	}

	s.logger.Info("fetching video info", "url", url)
	info, err := s.api.GetInfo(ctx, url)
	if err != nil {
		s.logger.Error("failed to fetch video info", "url", url, "error", err)
		return nil, fmt.Errorf("fetch info: %w", err)
	}

	s.store(url, info)
	out := *info
	return &out, nil
}

// LastPreview returns the most recently fetched metadata, or nil
func (s *MetadataService) LastPreview() *domain.VideoInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil {
		return nil
	}
	out := *s.last
	return &out
}

// ClearPreview forgets the last preview; cached entries stay
func (s *MetadataService) ClearPreview() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = nil
}

func (s *MetadataService) cached(url string) (*domain.VideoInfo, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.cache[url]
	if !ok {
		return nil, false
	}
	now := s.clock.Now()
	if now.Sub(entry.storedAt) >= s.ttl {
		delete(s.cache, url)
		return nil, false
	}
	entry.lastUsed = now

	info := entry.info
	s.last = &info
	out := info
	return &out, true
}

func (s *MetadataService) store(url string, info *domain.VideoInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.cache[url]; !exists && len(s.cache) >= s.size {
		s.evictOldestLocked()
	}

	now := s.clock.Now()
	s.cache[url] = &infoCacheEntry{info: *info, storedAt: now, lastUsed: now}
	last := *info
	s.last = &last
}

// evictOldestLocked drops the least recently used entry. Caller holds mu.
func (s *MetadataService) evictOldestLocked() {
	var oldestKey string
	var oldest time.Time
	for k, e := range s.cache {
		if oldestKey == "" || e.lastUsed.Before(oldest) {
			oldestKey, oldest = k, e.lastUsed
		}
	}
	if oldestKey != "" {
		delete(s.cache, oldestKey)
	}
}
