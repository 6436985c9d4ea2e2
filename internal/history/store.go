// Package history persists command run outcomes so callers can drill
// back into a past run by its ID.
package history

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/intellimarkets/jianerctl/internal/runner"
)

// Record is one stored command execution.
type Record struct {
	ID        string          `json:"id"` // the Outcome's RunID
	Command   string          `json:"command"`
	StartedAt time.Time       `json:"started_at"`
	Outcome   *runner.Outcome `json:"outcome"`
}

// Store persists and retrieves run records.
type Store interface {
	Save(rec *Record) error
	Load(runID string) (*Record, error)
}

// LRUStore is an in-memory LRU cache that delegates to a backing Store
// on miss.
type LRUStore struct {
	cache *lru.Cache[string, *Record]
	back  Store
}

// NewLRUStore creates an LRU cache with the given capacity that
// delegates to back on cache misses. Capacity must be >= 1.
func NewLRUStore(capacity int, back Store) *LRUStore {
	if capacity < 1 {
		capacity = 1
	}
	cache, _ := lru.New[string, *Record](capacity)
	return &LRUStore{cache: cache, back: back}
}

// Save writes the record to the cache and delegates to the backing store.
func (s *LRUStore) Save(rec *Record) error {
	s.cache.Add(rec.ID, rec)
	return s.back.Save(rec)
}

// Load checks the cache first. On miss, loads from the backing store and
// promotes the record into the cache.
func (s *LRUStore) Load(runID string) (*Record, error) {
	if rec, ok := s.cache.Get(runID); ok {
		return rec, nil
	}
	rec, err := s.back.Load(runID)
	if err != nil {
		return nil, err
	}
	s.cache.Add(runID, rec)
	return rec, nil
}
