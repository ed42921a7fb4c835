package service_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fraudguard/fraudguard/gateway/internal/service"
	"github.com/fraudguard/fraudguard/pkg/fraud"
)

func TestSimulate(t *testing.T) {
	now := time.Date(2025, 3, 12, 14, 37, 0, 0, time.UTC)
	recs := service.Simulate("acc_001", 25, now)

	require.Len(t, recs, 10)
	for i, r := range recs {
		assert.Equal(t, "acc_001", r.AccountID)
		assert.Equal(t, fraud.TypeDebit, r.Type)
		assert.True(t, r.Amount.GreaterThanOrEqual(decimal.NewFromInt(10)), "amount %s", r.Amount)
		assert.True(t, r.Amount.LessThan(decimal.NewFromInt(510)), "amount %s", r.Amount)
		ts, ok := r.Time()
		require.True(t, ok)
		assert.Equal(t, time.Date(2025, 3, 12, 14, 0, 0, 0, time.UTC).Add(-time.Duration(i)*time.Hour), ts)
	}
	assert.Equal(t, "txn_acc_001_3", recs[3].TransactionID)
	assert.Equal(t, "Merchant_3", recs[3].Merchant)
	assert.Equal(t, "retail", recs[3].Category)
	assert.Equal(t, "City_0", recs[3].Location)
}

func TestSimulate_StableWithinHour(t *testing.T) {
	a := service.Simulate("acc_002", 5, time.Date(2025, 3, 12, 14, 1, 0, 0, time.UTC))
	b := service.Simulate("acc_002", 5, time.Date(2025, 3, 12, 14, 59, 0, 0, time.UTC))
	assert.Equal(t, a, b)
}

func TestSimulate_Limits(t *testing.T) {
	now := time.Now()
	assert.Empty(t, service.Simulate("acc_001", 0, now))
	assert.Empty(t, service.Simulate("acc_001", -3, now))
	assert.Len(t, service.Simulate("acc_001", 3, now), 3)
}
