package port

import (
	"context"

	"github.com/fraudguard/fraudguard/pkg/boa"
	"github.com/fraudguard/fraudguard/pkg/fraud"
)

// Ledger lists entries from the bank ledger. *boa.Client satisfies it.
type Ledger interface {
	Transactions(ctx context.Context, accountID string, limit int) ([]boa.LedgerTransaction, error)
}

// Ingestor submits a transaction to the gateway and returns the ingest
// status it reported ("accepted" or "duplicate").
type Ingestor interface {
	Ingest(ctx context.Context, in fraud.TransactionInput) (string, error)
}
