package event

import (
	"time"

	"github.com/fraudguard/fraudguard/pkg/events"
)

// EventTypeAuditRecorded is emitted whenever an audit record is written.
const EventTypeAuditRecorded = "fraudguard.audit.recorded"

// AuditRecorded is published after an analysis has been explained and stored.
type AuditRecorded struct {
	events.BaseEvent
	TransactionID string    `json:"transaction_id"`
	RiskScore     float64   `json:"risk_score"`
	RiskLevel     string    `json:"risk_level"`
	Action        string    `json:"action"`
	Explanation   string    `json:"explanation"`
	RecordedAt    time.Time `json:"recorded_at"`
}

// NewAuditRecorded builds an AuditRecorded event keyed by transaction ID.
func NewAuditRecorded(transactionID string, score float64, level, action, explanation string, at time.Time) AuditRecorded {
	return AuditRecorded{
		BaseEvent:     events.NewBaseEvent(EventTypeAuditRecorded, transactionID),
		TransactionID: transactionID,
		RiskScore:     score,
		RiskLevel:     level,
		Action:        action,
		Explanation:   explanation,
		RecordedAt:    at,
	}
}
