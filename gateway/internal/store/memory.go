package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/fraudguard/fraudguard/pkg/fraud"
)

type memoryEntry struct {
	rec      fraud.TransactionRecord
	occurred time.Time
	seq      uint64
}

// MemoryStore is a bounded in-process Store. When full, the earliest
// ingested record is dropped.
type MemoryStore struct {
	mu       sync.RWMutex
	byID     map[string]*memoryEntry
	order    []*memoryEntry
	seq      uint64
	capacity int
	now      func() time.Time
}

// NewMemoryStore creates a MemoryStore holding at most capacity records.
// A non-positive capacity means unbounded.
func NewMemoryStore(capacity int) *MemoryStore {
	return &MemoryStore{
		byID:     make(map[string]*memoryEntry),
		capacity: capacity,
		now:      time.Now,
	}
}

func (s *MemoryStore) Save(_ context.Context, rec fraud.TransactionRecord) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[rec.TransactionID]; ok {
		return false, nil
	}
	if s.capacity > 0 && len(s.order) >= s.capacity {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.byID, oldest.rec.TransactionID)
	}

	s.seq++
	e := &memoryEntry{rec: rec, occurred: occurredAt(rec, s.now()), seq: s.seq}
	s.byID[rec.TransactionID] = e
	s.order = append(s.order, e)
	return true, nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (fraud.TransactionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.byID[id]
	if !ok {
		return fraud.TransactionRecord{}, ErrNotFound
	}
	return e.rec, nil
}

func (s *MemoryStore) ListByAccount(_ context.Context, accountID string, limit int) ([]fraud.TransactionRecord, error) {
	return s.newest(limit, func(e *memoryEntry) bool { return e.rec.AccountID == accountID }), nil
}

func (s *MemoryStore) Recent(_ context.Context, limit int) ([]fraud.TransactionRecord, error) {
	return s.newest(limit, func(*memoryEntry) bool { return true }), nil
}

func (s *MemoryStore) AttachRisk(_ context.Context, id string, score float64, explanation string) (fraud.TransactionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.byID[id]
	if !ok {
		return fraud.TransactionRecord{}, ErrNotFound
	}
	if e.rec.IsScored() {
		return fraud.TransactionRecord{}, ErrAlreadyScored
	}
	e.rec.AttachRisk(score, explanation)
	return e.rec, nil
}

// Len returns the number of stored records.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

func (s *MemoryStore) newest(limit int, keep func(*memoryEntry) bool) []fraud.TransactionRecord {
	s.mu.RLock()
	matched := make([]*memoryEntry, 0, len(s.order))
	for _, e := range s.order {
		if keep(e) {
			matched = append(matched, e)
		}
	}
	out := make([]fraud.TransactionRecord, 0, min(len(matched), max(limit, 0)))
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].occurred.Equal(matched[j].occurred) {
			return matched[i].occurred.After(matched[j].occurred)
		}
		return matched[i].seq > matched[j].seq
	})
	for _, e := range matched {
		if len(out) >= limit {
			break
		}
		out = append(out, e.rec)
	}
	s.mu.RUnlock()
	return out
}
