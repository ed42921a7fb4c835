// Package dedup tracks recently processed transaction IDs in a bounded set.
package dedup

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCapacity is used by services that do not configure one.
const DefaultCapacity = 10000

// Set is a fixed-capacity set of IDs. When full, adding a new ID evicts the
// oldest inserted one. Lookups never refresh an entry, so eviction order is
// insertion order. Safe for concurrent use.
type Set struct {
	cache    *lru.Cache[string, struct{}]
	capacity int
}

// New creates a Set that holds at most capacity IDs.
func New(capacity int) (*Set, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("dedup: capacity must be positive, got %d", capacity)
	}
	cache, err := lru.New[string, struct{}](capacity)
	if err != nil {
		return nil, fmt.Errorf("dedup: %w", err)
	}
	return &Set{cache: cache, capacity: capacity}, nil
}

// Seen reports whether id is currently tracked.
func (s *Set) Seen(id string) bool {
	return s.cache.Contains(id)
}

// Add records id. It returns false when id was already tracked.
func (s *Set) Add(id string) bool {
	found, _ := s.cache.ContainsOrAdd(id, struct{}{})
	return !found
}

// Len returns the number of tracked IDs.
func (s *Set) Len() int {
	return s.cache.Len()
}

// Capacity returns the maximum number of tracked IDs.
func (s *Set) Capacity() int {
	return s.capacity
}
