// Package memory holds the in-process audit repository used when no
// database is configured.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/fraudguard/fraudguard/services/explain-agent/internal/domain/model"
)

// AuditRepository implements port.AuditRepository in memory. It keeps at
// most capacity records and drops the oldest when full.
type AuditRepository struct {
	mu       sync.RWMutex
	byTxID   map[string]*model.AuditRecord
	capacity int
	nextID   int64
}

// NewAuditRepository creates a repository holding up to capacity records.
// A capacity of zero or less means unbounded.
func NewAuditRepository(capacity int) *AuditRepository {
	return &AuditRepository{
		byTxID:   make(map[string]*model.AuditRecord),
		capacity: capacity,
	}
}

func (r *AuditRepository) Save(_ context.Context, record *model.AuditRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.byTxID[record.TransactionID()]; ok {
		record.AssignID(existing.ID())
	} else {
		if r.capacity > 0 && len(r.byTxID) >= r.capacity {
			r.evictOldest()
		}
		r.nextID++
		record.AssignID(r.nextID)
	}
	r.byTxID[record.TransactionID()] = snapshot(record)
	return nil
}

func (r *AuditRepository) FindByTransactionID(_ context.Context, transactionID string) (*model.AuditRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.byTxID[transactionID]
	if !ok {
		return nil, model.ErrNotFound
	}
	return record, nil
}

func (r *AuditRepository) ListRecent(_ context.Context, limit int) ([]*model.AuditRecord, error) {
	r.mu.RLock()
	out := make([]*model.AuditRecord, 0, len(r.byTxID))
	for _, record := range r.byTxID {
		out = append(out, record)
	}
	r.mu.RUnlock()

	sortNewestFirst(out)
	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// evictOldest drops the record with the lowest ID. Caller holds the lock.
func (r *AuditRepository) evictOldest() {
	var oldest *model.AuditRecord
	for _, record := range r.byTxID {
		if oldest == nil || record.ID() < oldest.ID() {
			oldest = record
		}
	}
	if oldest != nil {
		delete(r.byTxID, oldest.TransactionID())
	}
}

// snapshot stores a copy without pending events.
func snapshot(r *model.AuditRecord) *model.AuditRecord {
	return model.ReconstructAuditRecord(
		r.ID(), r.TransactionID(), r.RiskScore(), r.Rationale(), r.Explanation(), r.Action(), r.RecordedAt(),
	)
}

func sortNewestFirst(records []*model.AuditRecord) {
	sort.Slice(records, func(i, j int) bool {
		if !records[i].RecordedAt().Equal(records[j].RecordedAt()) {
			return records[i].RecordedAt().After(records[j].RecordedAt())
		}
		return records[i].ID() > records[j].ID()
	})
}
