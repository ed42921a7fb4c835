package port

import (
	"context"

	"github.com/fraudguard/fraudguard/pkg/events"
	"github.com/fraudguard/fraudguard/pkg/fraud"
	"github.com/fraudguard/fraudguard/services/risk-scorer/internal/domain/model"
)

// AIScorer sends a prompt to a language model and returns its raw text reply.
// Callers validate the reply; an AIScorer does not interpret it.
type AIScorer interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// HistoryReader fetches an account's most recent transactions, newest first.
type HistoryReader interface {
	RecentTransactions(ctx context.Context, accountID string, limit int) ([]fraud.TransactionRecord, error)
}

// RiskAttacher stores a computed score on the transaction of record.
type RiskAttacher interface {
	AttachRisk(ctx context.Context, transactionID string, score float64, rationale string) error
}

// ExplanationForwarder hands an assessment to the explanation service.
type ExplanationForwarder interface {
	Forward(ctx context.Context, assessment *model.Assessment) error
}

// AssessmentCache remembers completed assessments by transaction ID.
// Get returns (nil, nil) on a miss.
type AssessmentCache interface {
	Get(ctx context.Context, transactionID string) (*model.Assessment, error)
	Set(ctx context.Context, assessment *model.Assessment) error
}

// EventPublisher defines the port for publishing domain events.
type EventPublisher = events.Publisher

// AssessmentRecorder records metrics for completed assessments.
type AssessmentRecorder interface {
	RecordAssessment(ctx context.Context, assessment *model.Assessment)
}
