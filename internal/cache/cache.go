// Package cache provides the process-lifetime memoization store shared by the
// battery orchestrator and the individual tests. Entries are append-only:
// nothing is evicted until an explicit Reset, since the workload is repeated
// benchmark evaluation of a bounded set of sequences.
package cache

import (
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"gonist/domain/core"
)

// Store is a compute-or-fetch map keyed by deterministic fingerprints. Two
// granularities share the same mechanism: function-level entries memoize
// expensive pure sub-computations (random walks, DFT magnitudes), test-level
// entries memoize whole test results keyed by (test, sequence, parameters).
type Store struct {
	mu      sync.RWMutex
	entries map[core.Hash]interface{}
	group   singleflight.Group

	hits   atomic.Int64
	misses atomic.Int64
}

// New creates an empty store.
func New() *Store {
	return &Store{entries: make(map[core.Hash]interface{})}
}

// GetOrCompute returns the stored value for key, computing and storing it via
// compute on a miss. Concurrent callers with the same key share a single
// in-flight computation. A failed compute stores nothing.
func (s *Store) GetOrCompute(key core.Hash, compute func() (interface{}, error)) (interface{}, error) {
	s.mu.RLock()
	value, ok := s.entries[key]
	s.mu.RUnlock()
	if ok {
		s.hits.Add(1)
		return value, nil
	}

	// Singleflight runs only the first caller's closure; every caller it
	// ran for counts its own outcome, the rest were served in-flight hits.
	executed := false
	value, err, _ := s.group.Do(key.String(), func() (interface{}, error) {
		executed = true

		// A concurrent computation may have landed between the read
		// lock and the singleflight entry.
		s.mu.RLock()
		stored, found := s.entries[key]
		s.mu.RUnlock()
		if found {
			s.hits.Add(1)
			return stored, nil
		}

		computed, err := compute()
		if err != nil {
			return nil, err
		}
		s.misses.Add(1)
		s.mu.Lock()
		s.entries[key] = computed
		s.mu.Unlock()
		return computed, nil
	})
	if err != nil {
		return nil, err
	}
	if !executed {
		s.hits.Add(1)
	}
	return value, nil
}

// Get returns the stored value for key without computing.
func (s *Store) Get(key core.Hash) (interface{}, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.entries[key]
	return value, ok
}

// Len returns the number of stored entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Hits returns the number of lookups served from the store.
func (s *Store) Hits() int64 {
	return s.hits.Load()
}

// Misses returns the number of lookups that required a computation.
func (s *Store) Misses() int64 {
	return s.misses.Load()
}

// Reset drops every entry and zeroes the counters. Intended for test suites
// and long-lived benchmark processes switching workloads.
func (s *Store) Reset() {
	s.mu.Lock()
	s.entries = make(map[core.Hash]interface{})
	s.mu.Unlock()
	s.hits.Store(0)
	s.misses.Store(0)
}
