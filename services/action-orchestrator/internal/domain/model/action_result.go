package model

import (
	"strings"
	"time"

	"github.com/fraudguard/fraudguard/pkg/events"
	"github.com/fraudguard/fraudguard/pkg/fraud"
	"github.com/fraudguard/fraudguard/services/action-orchestrator/internal/domain/event"
)

// ActionResult records the outcome of executing an action for a transaction.
type ActionResult struct {
	events.EventCollector

	executedAt    time.Time
	transactionID string
	message       string
	action        fraud.Action
	riskScore     float64
	success       bool
}

// NewActionResult records an outcome and its ActionExecuted event.
func NewActionResult(transactionID string, action fraud.Action, score float64, success bool, message string, at time.Time) (*ActionResult, error) {
	if strings.TrimSpace(transactionID) == "" {
		return nil, fraud.ErrMissingTransactionID
	}
	r := &ActionResult{
		transactionID: transactionID,
		action:        action,
		riskScore:     score,
		success:       success,
		message:       message,
		executedAt:    at.UTC(),
	}
	r.Record(event.NewActionExecuted(r.transactionID, r.action.String(), r.riskScore, r.success, r.message, r.executedAt))
	return r, nil
}

// --- Accessors ---

func (r *ActionResult) TransactionID() string { return r.transactionID }
func (r *ActionResult) Action() fraud.Action  { return r.action }
func (r *ActionResult) RiskScore() float64    { return r.riskScore }
func (r *ActionResult) Success() bool         { return r.success }
func (r *ActionResult) Message() string       { return r.message }
func (r *ActionResult) ExecutedAt() time.Time { return r.executedAt }
