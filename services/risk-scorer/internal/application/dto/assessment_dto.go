package dto

import (
	"time"

	"github.com/fraudguard/fraudguard/pkg/fraud"
	"github.com/fraudguard/fraudguard/services/risk-scorer/internal/domain/model"
)

// ScoreRequest is the input of the side-effect-free scoring use case.
// History is taken as given; nothing is fetched.
type ScoreRequest struct {
	Transaction fraud.TransactionInput    `json:"transaction"`
	History     []fraud.TransactionRecord `json:"history"`
}

// AssessmentResponse is the output DTO for an assessed transaction.
type AssessmentResponse struct {
	AssessedAt    time.Time            `json:"assessed_at"`
	Signals       model.PatternSignals `json:"signals"`
	TransactionID string               `json:"transaction_id"`
	AccountID     string               `json:"account_id,omitempty"`
	RiskLevel     string               `json:"risk_level"`
	Action        string               `json:"action"`
	Rationale     string               `json:"rationale"`
	Source        string               `json:"source"`
	RiskScore     float64              `json:"risk_score"`
	HistoryCount  int                  `json:"history_count"`
	Cached        bool                 `json:"cached,omitempty"`
}

// FromModel maps a domain model to the response DTO.
func FromModel(a *model.Assessment) AssessmentResponse {
	return AssessmentResponse{
		TransactionID: a.TransactionID(),
		AccountID:     a.AccountID(),
		RiskScore:     a.RiskScore(),
		RiskLevel:     a.RiskLevel().String(),
		Action:        a.Action().String(),
		Rationale:     a.Rationale(),
		Source:        a.Source().String(),
		Signals:       a.Signals(),
		HistoryCount:  a.HistoryCount(),
		AssessedAt:    a.AssessedAt(),
	}
}
