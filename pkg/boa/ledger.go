// Package boa speaks to the Bank of Anthos deployment FraudGuard monitors:
// its ledger feed and the step-up and hold endpoints used by actions.
package boa

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fraudguard/fraudguard/pkg/fraud"
)

// Source tags records that originate from the bank ledger.
const Source = "bank_of_anthos"

// LedgerTransaction is a ledger entry as the bank serves it. Amounts are
// signed: debits are negative. A nil Amount means the ledger sent none.
type LedgerTransaction struct {
	TransactionID string           `json:"transactionId"`
	AccountID     string           `json:"accountId"`
	Amount        *decimal.Decimal `json:"amount"`
	Description   string           `json:"description"`
	Timestamp     string           `json:"timestamp"`
	Type          string           `json:"type,omitempty"`
}

// LedgerPage is the envelope of GET /transactions.
type LedgerPage struct {
	Transactions []LedgerTransaction `json:"transactions"`
}

// idNamespace scopes IDs derived for ledger entries that carry none.
var idNamespace = uuid.MustParse("6f1c2a4e-8b3d-4d5e-9a7f-0c1b2d3e4f50")

// ToInput converts a ledger entry into the gateway ingest payload. The
// amount becomes absolute and the sign decides the type; a zero amount keeps
// the type the ledger reported. A missing amount or timestamp is passed on
// empty so that validation rejects the entry. A missing ID is derived from
// the entry's content, so distinct entries get distinct IDs and the same
// entry keeps its ID across polls.
func (t LedgerTransaction) ToInput() fraud.TransactionInput {
	id := strings.TrimSpace(t.TransactionID)
	if id == "" {
		id = "boa_" + t.contentID()
	}
	merchant := strings.TrimSpace(t.Description)
	if merchant == "" {
		merchant = "Unknown Merchant"
	}
	account := strings.TrimSpace(t.AccountID)
	if account == "" {
		account = "unknown_user"
	}

	in := fraud.TransactionInput{
		TransactionID: id,
		AccountID:     account,
		Merchant:      merchant,
		Type:          string(fraud.ParseTransactionType(t.Type)),
		Timestamp:     strings.TrimSpace(t.Timestamp),
		Source:        Source,
	}
	if t.Amount != nil {
		switch {
		case t.Amount.IsNegative():
			in.Type = string(fraud.TypeDebit)
		case t.Amount.IsPositive():
			in.Type = string(fraud.TypeCredit)
		}
		amount := t.Amount.Abs()
		in.Amount = &amount
	}
	return in
}

func (t LedgerTransaction) contentID() string {
	amount := ""
	if t.Amount != nil {
		amount = t.Amount.String()
	}
	key := strings.Join([]string{t.AccountID, amount, t.Description, t.Timestamp, t.Type}, "|")
	return uuid.NewSHA1(idNamespace, []byte(key)).String()
}

// SampleTransactions is the demo feed used when the ledger is unreachable.
// IDs embed the Unix second so each poll yields a fresh batch.
func SampleTransactions(now time.Time) []LedgerTransaction {
	samples := []struct {
		amount      string
		description string
	}{
		{"-150.00", "ATM Withdrawal"},
		{"-45.99", "Grocery Store"},
		{"-2500.00", "Electronics Purchase"},
		{"-8.50", "Coffee Shop"},
		{"1200.00", "Salary Deposit"},
	}

	out := make([]LedgerTransaction, 0, len(samples))
	for i, s := range samples {
		amount := decimal.RequireFromString(s.amount)
		typ := fraud.TypeCredit
		if amount.IsNegative() {
			typ = fraud.TypeDebit
		}
		out = append(out, LedgerTransaction{
			TransactionID: fmt.Sprintf("boa_%d_%d", now.Unix(), i),
			AccountID:     fmt.Sprintf("user_%d", 1000+i),
			Amount:        &amount,
			Description:   s.description,
			Timestamp:     now.UTC().Format(time.RFC3339Nano),
			Type:          string(typ),
		})
	}
	return out
}
