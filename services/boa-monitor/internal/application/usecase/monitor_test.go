package usecase_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fraudguard/fraudguard/pkg/boa"
	"github.com/fraudguard/fraudguard/pkg/dedup"
	"github.com/fraudguard/fraudguard/pkg/fraud"
	"github.com/fraudguard/fraudguard/services/boa-monitor/internal/application/usecase"
	"github.com/fraudguard/fraudguard/services/boa-monitor/internal/domain/port"
)

// --- Mock implementations ---

type mockLedger struct {
	transactionsFunc func() ([]boa.LedgerTransaction, error)
}

func (m *mockLedger) Transactions(context.Context, string, int) ([]boa.LedgerTransaction, error) {
	return m.transactionsFunc()
}

type mockIngestor struct {
	received   []fraud.TransactionInput
	ingestFunc func(in fraud.TransactionInput) (string, error)
}

func (m *mockIngestor) Ingest(_ context.Context, in fraud.TransactionInput) (string, error) {
	m.received = append(m.received, in)
	if m.ingestFunc != nil {
		return m.ingestFunc(in)
	}
	return "accepted", nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newMonitor(t *testing.T, ledger port.Ledger, ingestor *mockIngestor) *usecase.Monitor {
	t.Helper()
	seen, err := dedup.New(100)
	require.NoError(t, err)
	return usecase.NewMonitor(ledger, ingestor, seen, usecase.Options{PollInterval: 10 * time.Second}, discardLogger())
}

func amount(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func ledgerEntries() []boa.LedgerTransaction {
	return []boa.LedgerTransaction{
		{TransactionID: "boa_1", AccountID: "user_1000", Amount: amount("-150.00"), Description: "ATM Withdrawal", Timestamp: "2025-03-12T14:00:00Z"},
		{TransactionID: "boa_2", AccountID: "user_1001", Amount: amount("1200.00"), Description: "Salary Deposit", Timestamp: "2025-03-12T14:01:00Z"},
	}
}

// --- Tests ---

func TestSync_ConvertsAndForwards(t *testing.T) {
	ingestor := &mockIngestor{}
	m := newMonitor(t, &mockLedger{transactionsFunc: func() ([]boa.LedgerTransaction, error) {
		return ledgerEntries(), nil
	}}, ingestor)

	resp, err := m.Sync(context.Background())
	require.NoError(t, err)

	assert.Equal(t, usecase.SyncStatusSuccess, resp.Status)
	assert.Equal(t, 2, resp.TransactionsFound)
	assert.Equal(t, 2, resp.TransactionsForwarded)

	require.Len(t, ingestor.received, 2)
	debit := ingestor.received[0]
	assert.Equal(t, "boa_1", debit.TransactionID)
	assert.Equal(t, "user_1000", debit.AccountID)
	assert.Equal(t, "ATM Withdrawal", debit.Merchant)
	assert.Equal(t, "150", debit.Amount.String())
	assert.Equal(t, string(fraud.TypeDebit), debit.Type)
	assert.Equal(t, boa.Source, debit.Source)
	assert.Equal(t, string(fraud.TypeCredit), ingestor.received[1].Type)
}

func TestSync_SkipsForwardedEntries(t *testing.T) {
	ingestor := &mockIngestor{}
	m := newMonitor(t, &mockLedger{transactionsFunc: func() ([]boa.LedgerTransaction, error) {
		return ledgerEntries(), nil
	}}, ingestor)

	_, err := m.Sync(context.Background())
	require.NoError(t, err)
	resp, err := m.Sync(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, resp.TransactionsFound)
	assert.Zero(t, resp.TransactionsForwarded)
	assert.Len(t, ingestor.received, 2)
	assert.Equal(t, 2, m.Status().ProcessedTransactions)
}

func TestSync_MarksOnlyAfterSuccessfulForward(t *testing.T) {
	fail := true
	ingestor := &mockIngestor{ingestFunc: func(in fraud.TransactionInput) (string, error) {
		if fail && in.TransactionID == "boa_2" {
			return "", errors.New("gateway returned 503")
		}
		return "accepted", nil
	}}
	m := newMonitor(t, &mockLedger{transactionsFunc: func() ([]boa.LedgerTransaction, error) {
		return ledgerEntries(), nil
	}}, ingestor)

	resp, err := m.Sync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, resp.TransactionsForwarded)
	assert.Equal(t, 1, m.Status().ProcessedTransactions)

	fail = false
	resp, err = m.Sync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, resp.TransactionsForwarded)
	assert.Equal(t, "boa_2", ingestor.received[len(ingestor.received)-1].TransactionID)
}

func TestSync_RejectsIncompleteEntries(t *testing.T) {
	ingestor := &mockIngestor{}
	m := newMonitor(t, &mockLedger{transactionsFunc: func() ([]boa.LedgerTransaction, error) {
		return append(ledgerEntries(),
			boa.LedgerTransaction{TransactionID: "boa_no_amount", AccountID: "user_1002", Timestamp: "2025-03-12T14:02:00Z"},
			boa.LedgerTransaction{TransactionID: "boa_no_time", AccountID: "user_1002", Amount: amount("-9.99")},
		), nil
	}}, ingestor)

	resp, err := m.Sync(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, resp.TransactionsFound)
	assert.Equal(t, 2, resp.TransactionsForwarded)
	assert.Equal(t, 2, resp.TransactionsRejected)
	require.Len(t, ingestor.received, 2)
	for _, in := range ingestor.received {
		assert.NotEqual(t, "boa_no_amount", in.TransactionID)
		assert.NotEqual(t, "boa_no_time", in.TransactionID)
	}

	resp, err = m.Sync(context.Background())
	require.NoError(t, err)
	assert.Zero(t, resp.TransactionsRejected, "rejected entries are not revisited")
}

func TestSync_FallsBackToSamples(t *testing.T) {
	tests := []struct {
		name   string
		ledger port.Ledger
	}{
		{"no ledger", nil},
		{"ledger unavailable", &mockLedger{transactionsFunc: func() ([]boa.LedgerTransaction, error) {
			return nil, errors.New("connection refused")
		}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ingestor := &mockIngestor{}
			m := newMonitor(t, tt.ledger, ingestor)

			resp, err := m.Sync(context.Background())
			require.NoError(t, err)
			assert.Equal(t, 5, resp.TransactionsFound)
			assert.Equal(t, 5, resp.TransactionsForwarded)
			assert.Equal(t, "Salary Deposit", ingestor.received[4].Merchant)
		})
	}
}

func TestManualSync_ForwardsEverything(t *testing.T) {
	ingestor := &mockIngestor{}
	m := newMonitor(t, &mockLedger{transactionsFunc: func() ([]boa.LedgerTransaction, error) {
		return ledgerEntries(), nil
	}}, ingestor)

	_, err := m.Sync(context.Background())
	require.NoError(t, err)
	resp, err := m.ManualSync(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, resp.TransactionsForwarded)
	assert.Len(t, ingestor.received, 4)
	assert.Equal(t, int64(4), m.Status().ForwardedCount)
}

func TestSync_Cancelled(t *testing.T) {
	m := newMonitor(t, &mockLedger{transactionsFunc: func() ([]boa.LedgerTransaction, error) {
		return ledgerEntries(), nil
	}}, &mockIngestor{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := m.Sync(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStatus(t *testing.T) {
	m := newMonitor(t, nil, &mockIngestor{})

	status := m.Status()
	assert.Equal(t, "boa-monitor", status.Service)
	assert.Equal(t, "stopped", status.Status)
	assert.Nil(t, status.LastPoll)
	assert.Equal(t, 10, status.PollIntervalSeconds)

	_, err := m.Sync(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, m.Status().LastPoll)
}
