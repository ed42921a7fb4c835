package dto

import (
	"time"

	"github.com/fraudguard/fraudguard/services/action-orchestrator/internal/domain/model"
)

// ExecuteRequest asks for an action on a transaction. An empty action
// means notify.
type ExecuteRequest struct {
	TransactionID string  `json:"transaction_id"`
	RiskScore     float64 `json:"risk_score"`
	Action        string  `json:"action"`
	Explanation   string  `json:"explanation"`
}

// ActionResponse is the output DTO for an executed action.
type ActionResponse struct {
	Timestamp     time.Time `json:"timestamp"`
	TransactionID string    `json:"transaction_id"`
	Action        string    `json:"action"`
	Message       string    `json:"message"`
	Success       bool      `json:"success"`
}

// FromModel maps a domain model to the response DTO.
func FromModel(r *model.ActionResult) ActionResponse {
	return ActionResponse{
		TransactionID: r.TransactionID(),
		Action:        r.Action().String(),
		Success:       r.Success(),
		Message:       r.Message(),
		Timestamp:     r.ExecutedAt(),
	}
}
