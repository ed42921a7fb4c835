package event

import (
	"time"

	"github.com/fraudguard/fraudguard/pkg/events"
)

const (
	// EventTypeRiskScored is emitted for every completed assessment.
	EventTypeRiskScored = "fraudguard.risk.scored"

	// EventTypeHighRiskDetected is emitted in addition when the level is high.
	EventTypeHighRiskDetected = "fraudguard.risk.high_detected"
)

// RiskScored is published when a transaction has been scored.
type RiskScored struct {
	events.BaseEvent
	TransactionID string    `json:"transaction_id"`
	AccountID     string    `json:"account_id"`
	RiskScore     float64   `json:"risk_score"`
	RiskLevel     string    `json:"risk_level"`
	Action        string    `json:"action"`
	Source        string    `json:"source"`
	AssessedAt    time.Time `json:"assessed_at"`
}

// NewRiskScored builds a RiskScored event keyed by transaction ID.
func NewRiskScored(transactionID, accountID string, score float64, level, action, source string, at time.Time) RiskScored {
	return RiskScored{
		BaseEvent:     events.NewBaseEvent(EventTypeRiskScored, transactionID),
		TransactionID: transactionID,
		AccountID:     accountID,
		RiskScore:     score,
		RiskLevel:     level,
		Action:        action,
		Source:        source,
		AssessedAt:    at,
	}
}

// HighRiskDetected is published when an assessment lands in the high band,
// so alerting consumers need not filter every score.
type HighRiskDetected struct {
	events.BaseEvent
	TransactionID string    `json:"transaction_id"`
	AccountID     string    `json:"account_id"`
	RiskScore     float64   `json:"risk_score"`
	Rationale     string    `json:"rationale"`
	DetectedAt    time.Time `json:"detected_at"`
}

// NewHighRiskDetected builds a HighRiskDetected event keyed by transaction ID.
func NewHighRiskDetected(transactionID, accountID string, score float64, rationale string, at time.Time) HighRiskDetected {
	return HighRiskDetected{
		BaseEvent:     events.NewBaseEvent(EventTypeHighRiskDetected, transactionID),
		TransactionID: transactionID,
		AccountID:     accountID,
		RiskScore:     score,
		Rationale:     rationale,
		DetectedAt:    at,
	}
}
