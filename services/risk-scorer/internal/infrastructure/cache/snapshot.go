// Package cache stores completed assessments so repeat analyses of the same
// transaction return the first result.
package cache

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/fraudguard/fraudguard/pkg/fraud"
	"github.com/fraudguard/fraudguard/services/risk-scorer/internal/domain/model"
	"github.com/fraudguard/fraudguard/services/risk-scorer/internal/domain/valueobject"
)

type snapshot struct {
	AssessedAt    time.Time            `json:"assessed_at"`
	Signals       model.PatternSignals `json:"signals"`
	TransactionID string               `json:"transaction_id"`
	AccountID     string               `json:"account_id"`
	Rationale     string               `json:"rationale"`
	Source        string               `json:"source"`
	Action        string               `json:"action"`
	RiskScore     float64              `json:"risk_score"`
	HistoryCount  int                  `json:"history_count"`
}

func encode(a *model.Assessment) ([]byte, error) {
	return json.Marshal(snapshot{
		TransactionID: a.TransactionID(),
		AccountID:     a.AccountID(),
		RiskScore:     a.RiskScore(),
		Rationale:     a.Rationale(),
		Source:        a.Source().String(),
		Action:        a.Action().String(),
		Signals:       a.Signals(),
		HistoryCount:  a.HistoryCount(),
		AssessedAt:    a.AssessedAt(),
	})
}

func decode(data []byte) (*model.Assessment, error) {
	var s snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode cached assessment: %w", err)
	}
	source, err := valueobject.NewScoreSource(s.Source)
	if err != nil {
		return nil, fmt.Errorf("decode cached assessment: %w", err)
	}
	action, err := fraud.ActionFromString(s.Action)
	if err != nil {
		return nil, fmt.Errorf("decode cached assessment: %w", err)
	}
	return model.ReconstructAssessment(
		s.TransactionID, s.AccountID, s.RiskScore, s.Rationale,
		source, action, s.Signals, s.HistoryCount, s.AssessedAt,
	), nil
}
