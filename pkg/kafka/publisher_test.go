package kafka_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fraudguard/fraudguard/pkg/events"
	"github.com/fraudguard/fraudguard/pkg/kafka"
)

type mockProducer struct {
	publishFunc func(ctx context.Context, topic string, messages ...kafka.Message) error
}

func (m *mockProducer) Publish(ctx context.Context, topic string, messages ...kafka.Message) error {
	return m.publishFunc(ctx, topic, messages...)
}

type scoredEvent struct {
	events.BaseEvent
	RiskScore float64 `json:"risk_score"`
}

func TestEventPublisher_Publish(t *testing.T) {
	var gotTopic string
	var got []kafka.Message
	producer := &mockProducer{publishFunc: func(_ context.Context, topic string, messages ...kafka.Message) error {
		gotTopic = topic
		got = messages
		return nil
	}}

	pub := kafka.NewEventPublisher(producer, kafka.TopicRiskScored)
	evt := scoredEvent{BaseEvent: events.NewBaseEvent(kafka.TopicRiskScored, "txn_7"), RiskScore: 0.81}

	require.NoError(t, pub.Publish(context.Background(), evt))

	assert.Equal(t, kafka.TopicRiskScored, gotTopic)
	require.Len(t, got, 1)
	assert.Equal(t, "txn_7", string(got[0].Key))
	assert.Equal(t, kafka.TopicRiskScored, got[0].Headers["event_type"])
	assert.Equal(t, evt.EventID(), got[0].Headers["event_id"])

	var body map[string]any
	require.NoError(t, json.Unmarshal(got[0].Value, &body))
	assert.InDelta(t, 0.81, body["risk_score"], 1e-9)
	assert.Equal(t, "txn_7", body["aggregate_id"])
}

func TestEventPublisher_NoEventsIsNoop(t *testing.T) {
	producer := &mockProducer{publishFunc: func(context.Context, string, ...kafka.Message) error {
		t.Fatal("producer must not be called")
		return nil
	}}

	assert.NoError(t, kafka.NewEventPublisher(producer, "t").Publish(context.Background()))
}

func TestEventPublisher_PropagatesError(t *testing.T) {
	boom := errors.New("broker down")
	producer := &mockProducer{publishFunc: func(context.Context, string, ...kafka.Message) error { return boom }}

	err := kafka.NewEventPublisher(producer, "t").Publish(context.Background(), events.NewBaseEvent("x", "y"))
	assert.ErrorIs(t, err, boom)
}
