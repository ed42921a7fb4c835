package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fraudguard/fraudguard/pkg/events"
)

// MessagePublisher is the subset of Producer used by EventPublisher.
type MessagePublisher interface {
	Publish(ctx context.Context, topic string, messages ...Message) error
}

// EventPublisher serializes domain events as JSON and publishes them to a
// single topic, keyed by aggregate ID.
type EventPublisher struct {
	producer MessagePublisher
	topic    string
}

// NewEventPublisher creates an EventPublisher for topic.
func NewEventPublisher(producer MessagePublisher, topic string) *EventPublisher {
	return &EventPublisher{producer: producer, topic: topic}
}

// Publish implements events.Publisher.
func (p *EventPublisher) Publish(ctx context.Context, evts ...events.DomainEvent) error {
	if len(evts) == 0 {
		return nil
	}

	msgs := make([]Message, 0, len(evts))
	for _, evt := range evts {
		payload, err := json.Marshal(evt)
		if err != nil {
			return fmt.Errorf("marshal event %s: %w", evt.EventType(), err)
		}
		msgs = append(msgs, Message{
			Key:   []byte(evt.AggregateID()),
			Value: payload,
			Headers: map[string]string{
				"event_type":   evt.EventType(),
				"event_id":     evt.EventID(),
				"content-type": "application/json",
			},
		})
	}

	return p.producer.Publish(ctx, p.topic, msgs...)
}
