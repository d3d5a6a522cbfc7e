package dataset

import (
	"sync"
	"time"
)

// Store holds the current dataset snapshot. Reload swaps a complete new
// Collection under the lock; callers that took a Snapshot keep reading the
// collection they were handed, so in-flight queries are never affected by
// a concurrent reload.
type Store struct {
	mu       sync.RWMutex
	snapshot Collection
	loadedAt time.Time
}

// NewStore creates a Store seeded with an initial snapshot.
func NewStore(initial Collection) *Store {
	if initial == nil {
		initial = Collection{}
	}
	return &Store{
		snapshot: initial,
		loadedAt: time.Now(),
	}
}

// Snapshot returns the current collection. The returned value is read-only
// by contract; it remains valid after a Replace.
func (s *Store) Snapshot() Collection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// Replace swaps in a freshly loaded collection.
func (s *Store) Replace(c Collection) {
	if c == nil {
		c = Collection{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = c
	s.loadedAt = time.Now()
}

// LoadedAt reports when the current snapshot was installed.
func (s *Store) LoadedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadedAt
}
