package model

import (
	"fmt"
	"time"

	"github.com/fraudguard/fraudguard/pkg/events"
	"github.com/fraudguard/fraudguard/pkg/fraud"
	"github.com/fraudguard/fraudguard/services/risk-scorer/internal/domain/event"
	"github.com/fraudguard/fraudguard/services/risk-scorer/internal/domain/valueobject"
)

// Assessment is the aggregate root for a scored transaction.
type Assessment struct {
	events.EventCollector

	assessedAt    time.Time
	signals       PatternSignals
	transactionID string
	accountID     string
	rationale     string
	riskLevel     fraud.RiskLevel
	action        fraud.Action
	source        valueobject.ScoreSource
	riskScore     float64
	historyCount  int
}

// NewAssessment records the outcome of scoring a transaction. The level is
// always derived from the score through fraud.Classify.
func NewAssessment(
	transactionID, accountID string,
	score float64,
	rationale string,
	source valueobject.ScoreSource,
	action fraud.Action,
	signals PatternSignals,
	historyCount int,
	assessedAt time.Time,
) (*Assessment, error) {
	if transactionID == "" {
		return nil, fmt.Errorf("transaction ID is required")
	}
	if score < 0 || score > 1 {
		return nil, fmt.Errorf("risk score must be between 0 and 1, got %v", score)
	}
	if rationale == "" {
		return nil, fmt.Errorf("rationale is required")
	}
	if source.IsZero() {
		return nil, fmt.Errorf("score source is required")
	}
	if action.IsZero() {
		return nil, fmt.Errorf("action is required")
	}

	a := &Assessment{
		transactionID: transactionID,
		accountID:     accountID,
		riskScore:     score,
		riskLevel:     fraud.Classify(score),
		rationale:     rationale,
		source:        source,
		action:        action,
		signals:       signals,
		historyCount:  historyCount,
		assessedAt:    assessedAt.UTC(),
	}

	a.Record(event.NewRiskScored(
		a.transactionID, a.accountID, a.riskScore,
		a.riskLevel.String(), a.action.String(), a.source.String(), a.assessedAt,
	))
	if a.riskLevel.Equal(fraud.RiskLevelHigh) {
		a.Record(event.NewHighRiskDetected(a.transactionID, a.accountID, a.riskScore, a.rationale, a.assessedAt))
	}

	return a, nil
}

// ReconstructAssessment rebuilds an Assessment from stored data (no validation, no events).
func ReconstructAssessment(
	transactionID, accountID string,
	score float64,
	rationale string,
	source valueobject.ScoreSource,
	action fraud.Action,
	signals PatternSignals,
	historyCount int,
	assessedAt time.Time,
) *Assessment {
	return &Assessment{
		transactionID: transactionID,
		accountID:     accountID,
		riskScore:     score,
		riskLevel:     fraud.Classify(score),
		rationale:     rationale,
		source:        source,
		action:        action,
		signals:       signals,
		historyCount:  historyCount,
		assessedAt:    assessedAt,
	}
}

// --- Accessors ---

func (a *Assessment) TransactionID() string           { return a.transactionID }
func (a *Assessment) AccountID() string               { return a.accountID }
func (a *Assessment) RiskScore() float64              { return a.riskScore }
func (a *Assessment) RiskLevel() fraud.RiskLevel      { return a.riskLevel }
func (a *Assessment) Rationale() string               { return a.rationale }
func (a *Assessment) Source() valueobject.ScoreSource { return a.source }
func (a *Assessment) Action() fraud.Action            { return a.action }
func (a *Assessment) Signals() PatternSignals         { return a.signals }
func (a *Assessment) HistoryCount() int               { return a.historyCount }
func (a *Assessment) AssessedAt() time.Time           { return a.assessedAt }
