package fraud_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fraudguard/fraudguard/pkg/fraud"
)

func TestRecipientKey(t *testing.T) {
	tests := []struct {
		name     string
		label    string
		merchant string
		expected string
	}{
		{"lowercases label", "Coffee Shop", "", "coffee shop"},
		{"falls back to merchant", "", "Grocery_Store", "grocery_store"},
		{"label wins over merchant", "Amazon", "Other", "amazon"},
		{"account partner is case-insensitive", "ACCT:999", "", "acct:999"},
		{"account partner trims id", "acct: 111 ", "", "acct:111"},
		{"empty stays empty", "  ", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, fraud.RecipientKey(tt.label, tt.merchant))
		})
	}
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		input string
		ok    bool
		hour  int
	}{
		{"2024-01-01T12:00:00Z", true, 12},
		{"2024-01-01T02:30:00+02:00", true, 0},
		{"2024-01-01T03:15:00", true, 3},
		{"2024-01-01T03:15:00.123456", true, 3},
		{"2024-01-01 22:10:00", true, 22},
		{"not-a-date", false, 0},
		{"", false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			ts, ok := fraud.ParseTimestamp(tt.input)
			require.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.hour, ts.Hour())
				assert.Equal(t, time.UTC, ts.Location())
			}
		})
	}
}

func TestTransactionRecord_Normalize(t *testing.T) {
	rec := fraud.TransactionRecord{
		Amount: decimal.NewFromFloat(-45.99),
		Type:   "DEBIT",
	}

	got := rec.Normalize()

	assert.True(t, got.Amount.Equal(decimal.NewFromFloat(45.99)))
	assert.Equal(t, fraud.TypeDebit, got.Type)
	assert.Equal(t, fraud.TypeUnknown, fraud.TransactionRecord{Type: "wire"}.Normalize().Type)
}

func TestTransactionRecord_AttachRisk(t *testing.T) {
	var rec fraud.TransactionRecord
	require.False(t, rec.IsScored())

	rec.AttachRisk(0.72, "High amount $2500.00")

	require.True(t, rec.IsScored())
	assert.InDelta(t, 0.72, *rec.RiskScore, 1e-9)
	assert.Equal(t, "high", rec.RiskLevel)
	assert.Equal(t, "High amount $2500.00", rec.RiskExplanation)
}

func TestTransactionInput_ToRecord(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	amount := decimal.NewFromInt(-1500)

	t.Run("normalizes a complete input", func(t *testing.T) {
		in := fraud.TransactionInput{
			TransactionID: "txn_1",
			UserID:        "acc_001",
			Amount:        &amount,
			Merchant:      "Electronics",
			Timestamp:     "2024-01-01T12:00:00Z",
		}

		rec, err := in.ToRecord(true, now)

		require.NoError(t, err)
		assert.Equal(t, "acc_001", rec.AccountID)
		assert.True(t, rec.Amount.Equal(decimal.NewFromInt(1500)))
		assert.Equal(t, fraud.TypeDebit, rec.Type)
	})

	t.Run("strict mode rejects missing amount", func(t *testing.T) {
		in := fraud.TransactionInput{TransactionID: "txn_2", Timestamp: "2024-01-01T12:00:00Z"}

		_, err := in.ToRecord(true, now)

		require.ErrorIs(t, err, fraud.ErrMissingAmount)
		assert.True(t, fraud.IsValidationError(err))
	})

	t.Run("strict mode rejects missing timestamp", func(t *testing.T) {
		in := fraud.TransactionInput{TransactionID: "txn_3", Amount: &amount}

		_, err := in.ToRecord(true, now)

		require.ErrorIs(t, err, fraud.ErrMissingTimestamp)
	})

	t.Run("lenient mode defaults missing fields", func(t *testing.T) {
		in := fraud.TransactionInput{TransactionID: "txn_4"}

		rec, err := in.ToRecord(false, now)

		require.NoError(t, err)
		assert.True(t, rec.Amount.IsZero())
		assert.Equal(t, "2024-01-01T12:00:00Z", rec.Timestamp)
	})

	t.Run("transaction id is always required", func(t *testing.T) {
		_, err := fraud.TransactionInput{}.ToRecord(false, now)
		require.ErrorIs(t, err, fraud.ErrMissingTransactionID)
	})

	t.Run("malformed timestamp is kept", func(t *testing.T) {
		in := fraud.TransactionInput{TransactionID: "txn_5", Amount: &amount, Timestamp: "not-a-date"}

		rec, err := in.ToRecord(true, now)

		require.NoError(t, err)
		_, ok := rec.Time()
		assert.False(t, ok)
	})
}

func TestTransactionRecord_AmountIsJSONNumber(t *testing.T) {
	rec := fraud.TransactionRecord{TransactionID: "t1", Amount: decimal.RequireFromString("1500.5"), Type: fraud.TypeDebit}

	payload, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.Contains(t, string(payload), `"amount":1500.5`)

	var back fraud.TransactionRecord
	require.NoError(t, json.Unmarshal([]byte(`{"transaction_id":"t2","amount":"42.10","type":"credit"}`), &back))
	assert.True(t, back.Amount.Equal(decimal.RequireFromString("42.1")))
}
