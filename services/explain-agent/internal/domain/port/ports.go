package port

import (
	"context"

	"github.com/fraudguard/fraudguard/pkg/events"
	"github.com/fraudguard/fraudguard/pkg/fraud"
	"github.com/fraudguard/fraudguard/services/explain-agent/internal/domain/model"
)

// AuditRepository stores audit records keyed by transaction ID.
type AuditRepository interface {
	// Save inserts or replaces the record for its transaction and assigns
	// the record's ID. A replaced record keeps its original ID.
	Save(ctx context.Context, record *model.AuditRecord) error
	// FindByTransactionID returns model.ErrNotFound when absent.
	FindByTransactionID(ctx context.Context, transactionID string) (*model.AuditRecord, error)
	// ListRecent returns records newest first.
	ListRecent(ctx context.Context, limit int) ([]*model.AuditRecord, error)
}

// ActionDispatcher hands a recommended action to the orchestrator.
type ActionDispatcher interface {
	Execute(ctx context.Context, transactionID string, score float64, action fraud.Action, explanation string) error
}

// EventPublisher defines the port for publishing domain events.
type EventPublisher = events.Publisher
