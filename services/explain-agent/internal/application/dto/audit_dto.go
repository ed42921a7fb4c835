package dto

import (
	"time"

	"github.com/fraudguard/fraudguard/services/explain-agent/internal/domain/model"
)

// ProcessRequest is the analysis handed over by the risk scorer.
type ProcessRequest struct {
	TransactionID string    `json:"transaction_id"`
	RiskScore     *float64  `json:"risk_score"`
	Rationale     string    `json:"rationale"`
	Timestamp     time.Time `json:"timestamp"`
}

// AuditResponse is the output DTO for an audit record.
type AuditResponse struct {
	Timestamp     time.Time `json:"timestamp"`
	TransactionID string    `json:"transaction_id"`
	RiskLevel     string    `json:"risk_level"`
	Rationale     string    `json:"rationale"`
	Explanation   string    `json:"explanation"`
	Action        string    `json:"action"`
	RiskScore     float64   `json:"risk_score"`
	ID            int64     `json:"id"`
}

// FromModel maps a domain model to the response DTO.
func FromModel(r *model.AuditRecord) AuditResponse {
	return AuditResponse{
		ID:            r.ID(),
		TransactionID: r.TransactionID(),
		RiskScore:     r.RiskScore(),
		RiskLevel:     r.RiskLevel().String(),
		Rationale:     r.Rationale(),
		Explanation:   r.Explanation(),
		Action:        r.Action().String(),
		Timestamp:     r.RecordedAt(),
	}
}

// FromModels maps a slice of records, never returning nil.
func FromModels(records []*model.AuditRecord) []AuditResponse {
	out := make([]AuditResponse, 0, len(records))
	for _, r := range records {
		out = append(out, FromModel(r))
	}
	return out
}
