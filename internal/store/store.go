package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/mmcdole/tubegrab/internal/domain"
	bolt "go.etcd.io/bbolt"
)

// Bucket names
var (
	bucketHistory     = []byte("history")
	bucketPreferences = []byte("preferences")
)

var allBuckets = [][]byte{bucketHistory, bucketPreferences}

// Preference keys
const (
	keyHistory  = "list"
	keyTerms    = "terms"
	keyTheme    = "theme"
	keyClientID = "client_id"
)

// dbFile is the database file name inside the storage dir
const dbFile = "tubegrab.db"

// LocalStore implements domain.Store using BoltDB.
type LocalStore struct {
	db *bolt.DB
	mu sync.RWMutex // Protects cache and closed

	// In-memory cache for reads (promoted on access)
	cache  map[string][]byte
	closed bool
}

// NewLocalStore opens the store under dir. An empty dir keeps everything in memory.
func NewLocalStore(dir string) (*LocalStore, error) {
	if dir == "" {
		return &LocalStore{cache: make(map[string][]byte)}, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}

	db, err := bolt.Open(filepath.Join(dir, dbFile), 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range allBuckets {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &LocalStore{db: db, cache: make(map[string][]byte)}, nil
}

func (s *LocalStore) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// === Generic helpers ===

func (s *LocalStore) get(bucket []byte, key string, dest interface{}) bool {
	cacheKey := string(bucket) + ":" + key

	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		return false
	}
	if data, ok := s.cache[cacheKey]; ok {
		s.mu.RUnlock()
		return json.Unmarshal(data, dest) == nil
	}
	s.mu.RUnlock()

	if s.db == nil {
		return false
	}

	var data []byte
	s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(key)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})

	if data == nil {
		return false
	}

	s.mu.Lock()
	s.cache[cacheKey] = data
	s.mu.Unlock()

	return json.Unmarshal(data, dest) == nil
}

func (s *LocalStore) set(bucket []byte, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	cacheKey := string(bucket) + ":" + key

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return domain.ErrStoreClosed
	}

	// The cache only ever holds what bolt accepted
	if s.db != nil {
		err := s.db.Update(func(tx *bolt.Tx) error {
			return tx.Bucket(bucket).Put([]byte(key), data)
		})
		if err != nil {
			return fmt.Errorf("write %s: %w", cacheKey, err)
		}
	}
	s.cache[cacheKey] = data
	return nil
}

// === History ===

func (s *LocalStore) GetHistory() ([]domain.HistoryEntry, bool) {
	var entries []domain.HistoryEntry
	ok := s.get(bucketHistory, keyHistory, &entries)
	return entries, ok
}

func (s *LocalStore) SaveHistory(entries []domain.HistoryEntry) error {
	if entries == nil {
		entries = []domain.HistoryEntry{}
	}
	return s.set(bucketHistory, keyHistory, entries)
}

// === Preferences ===

func (s *LocalStore) GetTerms() (domain.TermsAcceptance, bool) {
	var terms domain.TermsAcceptance
	ok := s.get(bucketPreferences, keyTerms, &terms)
	return terms, ok
}

func (s *LocalStore) SaveTerms(terms domain.TermsAcceptance) error {
	return s.set(bucketPreferences, keyTerms, terms)
}

func (s *LocalStore) GetTheme() (domain.Theme, bool) {
	var theme domain.Theme
	if !s.get(bucketPreferences, keyTheme, &theme) {
		return "", false
	}
	return domain.ParseTheme(string(theme)), true
}

func (s *LocalStore) SaveTheme(theme domain.Theme) error {
	return s.set(bucketPreferences, keyTheme, theme)
}

func (s *LocalStore) GetClientID() (string, bool) {
	var id string
	ok := s.get(bucketPreferences, keyClientID, &id)
	return id, ok && id != ""
}

func (s *LocalStore) SaveClientID(id string) error {
	return s.set(bucketPreferences, keyClientID, id)
}

// ClearAll wipes every bucket and the memory cache
func (s *LocalStore) ClearAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return domain.ErrStoreClosed
	}

	if s.db != nil {
		err := s.db.Update(func(tx *bolt.Tx) error {
			for _, bucket := range allBuckets {
				if err := tx.DeleteBucket(bucket); err != nil && !errors.Is(err, bolt.ErrBucketNotFound) {
					return err
				}
				if _, err := tx.CreateBucket(bucket); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("clear store: %w", err)
		}
	}
	s.cache = make(map[string][]byte)
	return nil
}
