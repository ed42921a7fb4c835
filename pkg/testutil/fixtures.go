package testutil

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fraudguard/fraudguard/pkg/fraud"
)

// Fixed identifiers and clock for deterministic testing.
const (
	TestAccountID1 = "acc_001"
	TestAccountID2 = "acc_002"
)

// TestNow is the reference instant used by fixtures: a Wednesday afternoon.
var TestNow = time.Date(2025, 3, 12, 14, 0, 0, 0, time.UTC)

// Transaction builds a debit record on TestAccountID1 at TestNow, then
// applies each option.
func Transaction(id string, amount string, opts ...func(*fraud.TransactionRecord)) fraud.TransactionRecord {
	rec := fraud.TransactionRecord{
		TransactionID: id,
		AccountID:     TestAccountID1,
		Amount:        decimal.RequireFromString(amount),
		Merchant:      "Corner Grocery",
		Category:      "groceries",
		Type:          fraud.TypeDebit,
		Timestamp:     fraud.FormatTimestamp(TestNow),
	}
	for _, opt := range opts {
		opt(&rec)
	}
	return rec
}

// At sets the record timestamp.
func At(ts time.Time) func(*fraud.TransactionRecord) {
	return func(r *fraud.TransactionRecord) { r.Timestamp = fraud.FormatTimestamp(ts) }
}

// ToMerchant sets the record merchant.
func ToMerchant(merchant string) func(*fraud.TransactionRecord) {
	return func(r *fraud.TransactionRecord) { r.Merchant = merchant }
}

// WithLabel sets the record label.
func WithLabel(label string) func(*fraud.TransactionRecord) {
	return func(r *fraud.TransactionRecord) { r.Label = label }
}

// OnAccount sets the record account.
func OnAccount(accountID string) func(*fraud.TransactionRecord) {
	return func(r *fraud.TransactionRecord) { r.AccountID = accountID }
}

// History builds n records for the same merchant and amount, spaced one day
// apart and ending a day before TestNow, each at the given UTC hour.
func History(n int, amount string, merchant string, hour int) []fraud.TransactionRecord {
	out := make([]fraud.TransactionRecord, 0, n)
	base := time.Date(TestNow.Year(), TestNow.Month(), TestNow.Day(), hour, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		ts := base.AddDate(0, 0, -(i + 1))
		out = append(out, Transaction(fmt.Sprintf("hist_%03d", i), amount, ToMerchant(merchant), At(ts)))
	}
	return out
}
