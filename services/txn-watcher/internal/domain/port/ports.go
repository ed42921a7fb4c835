package port

import (
	"context"

	"github.com/fraudguard/fraudguard/pkg/fraud"
)

// TransactionSource lists an account's most recent transactions.
type TransactionSource interface {
	RecentTransactions(ctx context.Context, accountID string, limit int) ([]fraud.TransactionRecord, error)
}

// Analyzer submits a transaction for risk analysis.
type Analyzer interface {
	Analyze(ctx context.Context, rec fraud.TransactionRecord) error
}
