package cache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/fraudguard/fraudguard/services/risk-scorer/internal/domain/model"
)

// MemoryCache is an in-process port.AssessmentCache for single-replica runs.
type MemoryCache struct {
	lru *expirable.LRU[string, *model.Assessment]
}

// NewMemoryCache creates a MemoryCache holding at most size entries for ttl.
func NewMemoryCache(size int, ttl time.Duration) *MemoryCache {
	return &MemoryCache{lru: expirable.NewLRU[string, *model.Assessment](size, nil, ttl)}
}

// Get returns the cached assessment, or nil on a miss.
func (c *MemoryCache) Get(_ context.Context, transactionID string) (*model.Assessment, error) {
	a, ok := c.lru.Get(transactionID)
	if !ok {
		return nil, nil
	}
	return a, nil
}

// Set stores the assessment unless one is already cached for its transaction.
func (c *MemoryCache) Set(_ context.Context, a *model.Assessment) error {
	if !c.lru.Contains(a.TransactionID()) {
		c.lru.Add(a.TransactionID(), a)
	}
	return nil
}

// Len returns the number of cached assessments.
func (c *MemoryCache) Len() int {
	return c.lru.Len()
}
