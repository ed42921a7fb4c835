package usecase

import (
	"context"
	"time"

	"github.com/fraudguard/fraudguard/services/risk-scorer/internal/application/dto"
)

// ScoreTransaction assesses a transaction against caller-supplied history
// with no side effects.
type ScoreTransaction struct {
	pipeline *Pipeline
	strict   bool
	now      func() time.Time
}

// NewScoreTransaction creates a new ScoreTransaction use case.
func NewScoreTransaction(pipeline *Pipeline, strict bool) *ScoreTransaction {
	return &ScoreTransaction{pipeline: pipeline, strict: strict, now: time.Now}
}

// Execute validates the transaction and scores it.
func (uc *ScoreTransaction) Execute(ctx context.Context, req dto.ScoreRequest) (dto.AssessmentResponse, error) {
	tx, err := req.Transaction.ToRecord(uc.strict, uc.now())
	if err != nil {
		return dto.AssessmentResponse{}, err
	}

	assessment, err := uc.pipeline.Assess(ctx, tx, req.History)
	if err != nil {
		return dto.AssessmentResponse{}, err
	}
	return dto.FromModel(assessment), nil
}
