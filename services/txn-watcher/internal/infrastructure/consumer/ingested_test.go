package consumer_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fraudguard/fraudguard/pkg/fraud"
	"github.com/fraudguard/fraudguard/pkg/kafka"
	"github.com/fraudguard/fraudguard/pkg/testutil"
	"github.com/fraudguard/fraudguard/services/txn-watcher/internal/infrastructure/consumer"
)

type mockProcessor struct {
	got         []fraud.TransactionRecord
	processFunc func(rec fraud.TransactionRecord) (bool, error)
}

func (m *mockProcessor) Process(_ context.Context, rec fraud.TransactionRecord) (bool, error) {
	m.got = append(m.got, rec)
	if m.processFunc != nil {
		return m.processFunc(rec)
	}
	return true, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func message(t *testing.T, v any) kafka.Message {
	t.Helper()
	payload, err := json.Marshal(v)
	require.NoError(t, err)
	return kafka.Message{Key: []byte("acc_001"), Value: payload}
}

func TestIngestedHandler(t *testing.T) {
	p := &mockProcessor{}
	h := consumer.IngestedHandler(p, discardLogger())

	rec := testutil.Transaction("txn_1", "99.99")
	err := h(context.Background(), message(t, map[string]any{
		"event_type":  "fraudguard.transaction.ingested",
		"transaction": rec,
	}))

	require.NoError(t, err)
	require.Len(t, p.got, 1)
	assert.Equal(t, "txn_1", p.got[0].TransactionID)
	assert.True(t, rec.Amount.Equal(p.got[0].Amount))
}

func TestIngestedHandler_DropsBadPayloads(t *testing.T) {
	p := &mockProcessor{}
	h := consumer.IngestedHandler(p, discardLogger())

	require.NoError(t, h(context.Background(), kafka.Message{Value: []byte("not json")}))
	require.NoError(t, h(context.Background(), message(t, map[string]any{"transaction": map[string]any{}})))
	assert.Empty(t, p.got)
}

func TestIngestedHandler_ProcessError(t *testing.T) {
	p := &mockProcessor{processFunc: func(fraud.TransactionRecord) (bool, error) {
		return false, errors.New("risk scorer down")
	}}
	h := consumer.IngestedHandler(p, discardLogger())

	err := h(context.Background(), message(t, map[string]any{"transaction": testutil.Transaction("txn_1", "1")}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "txn_1")
}
