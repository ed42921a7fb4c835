package port

import (
	"context"

	"github.com/fraudguard/fraudguard/pkg/events"
	"github.com/fraudguard/fraudguard/services/action-orchestrator/internal/domain/model"
)

// BankActions are the interventions the bank exposes.
type BankActions interface {
	StepUp(ctx context.Context, transactionID, reason string) error
	Hold(ctx context.Context, transactionID, reason string) error
}

// EventPublisher defines the port for publishing domain events.
type EventPublisher = events.Publisher

// ExecutionRecorder records metrics for executed actions.
type ExecutionRecorder interface {
	RecordExecution(ctx context.Context, result *model.ActionResult)
}
