// Package events defines the envelope shared by all FraudGuard domain events
// and the publisher port services depend on.
package events

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// DomainEvent is the interface all domain events must implement.
type DomainEvent interface {
	EventID() string
	EventType() string
	AggregateID() string
	OccurredAt() time.Time
}

// BaseEvent carries the envelope fields. Concrete events embed it so the
// envelope is flattened into their JSON payload.
type BaseEvent struct {
	ID        string    `json:"event_id"`
	Type      string    `json:"event_type"`
	Aggregate string    `json:"aggregate_id"`
	Occurred  time.Time `json:"occurred_at"`
}

// NewBaseEvent creates a BaseEvent with a generated ID and the current time.
func NewBaseEvent(eventType, aggregateID string) BaseEvent {
	return BaseEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Aggregate: aggregateID,
		Occurred:  time.Now().UTC(),
	}
}

func (e BaseEvent) EventID() string       { return e.ID }
func (e BaseEvent) EventType() string     { return e.Type }
func (e BaseEvent) AggregateID() string   { return e.Aggregate }
func (e BaseEvent) OccurredAt() time.Time { return e.Occurred }

// Publisher publishes domain events to a message broker.
type Publisher interface {
	Publish(ctx context.Context, events ...DomainEvent) error
}

// LogPublisher logs events instead of sending them anywhere. Services use it
// when no broker is configured.
type LogPublisher struct {
	logger *slog.Logger
}

// NewLogPublisher creates a LogPublisher.
func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

// Publish logs each event at debug level.
func (p *LogPublisher) Publish(ctx context.Context, evts ...DomainEvent) error {
	for _, evt := range evts {
		p.logger.DebugContext(ctx, "event emitted",
			"event_type", evt.EventType(),
			"aggregate_id", evt.AggregateID(),
			"event_id", evt.EventID(),
		)
	}
	return nil
}
