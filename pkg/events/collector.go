package events

import "context"

// EventCollector buffers the events an aggregate raises until the use case
// that changed it hands them to a Publisher. Embed it by value.
type EventCollector struct {
	pending []DomainEvent
}

// Record queues evts in order. Nil events are dropped.
func (c *EventCollector) Record(evts ...DomainEvent) {
	for _, evt := range evts {
		if evt != nil {
			c.pending = append(c.pending, evt)
		}
	}
}

// Events returns a copy of the queued events and leaves the queue intact.
func (c *EventCollector) Events() []DomainEvent {
	if len(c.pending) == 0 {
		return nil
	}
	out := make([]DomainEvent, len(c.pending))
	copy(out, c.pending)
	return out
}

// ClearEvents empties the queue and returns what it held.
func (c *EventCollector) ClearEvents() []DomainEvent {
	drained := c.pending
	c.pending = nil
	return drained
}

// Flush drains the queue into p. The queue is emptied even when p is nil or
// Publish fails; events are not retried.
func (c *EventCollector) Flush(ctx context.Context, p Publisher) error {
	drained := c.ClearEvents()
	if p == nil || len(drained) == 0 {
		return nil
	}
	return p.Publish(ctx, drained...)
}
