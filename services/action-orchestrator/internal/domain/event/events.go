package event

import (
	"time"

	"github.com/fraudguard/fraudguard/pkg/events"
)

// EventTypeActionExecuted is emitted for every executed action, successful or not.
const EventTypeActionExecuted = "fraudguard.action.executed"

// ActionExecuted is published after an action has been carried out.
type ActionExecuted struct {
	events.BaseEvent
	TransactionID string    `json:"transaction_id"`
	Action        string    `json:"action"`
	RiskScore     float64   `json:"risk_score"`
	Success       bool      `json:"success"`
	Message       string    `json:"message"`
	ExecutedAt    time.Time `json:"executed_at"`
}

// NewActionExecuted builds an ActionExecuted event keyed by transaction ID.
func NewActionExecuted(transactionID, action string, score float64, success bool, message string, at time.Time) ActionExecuted {
	return ActionExecuted{
		BaseEvent:     events.NewBaseEvent(EventTypeActionExecuted, transactionID),
		TransactionID: transactionID,
		Action:        action,
		RiskScore:     score,
		Success:       success,
		Message:       message,
		ExecutedAt:    at,
	}
}
