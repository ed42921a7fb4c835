package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/fraudguard/fraudguard/services/explain-agent/internal/application/dto"
	"github.com/fraudguard/fraudguard/services/explain-agent/internal/domain/model"
	"github.com/fraudguard/fraudguard/services/explain-agent/internal/domain/port"
	"github.com/fraudguard/fraudguard/services/explain-agent/internal/domain/service"
)

var tracer = otel.Tracer("github.com/fraudguard/fraudguard/services/explain-agent/usecase")

// ProcessAnalysis explains a scored transaction, stores the audit record and
// hands the recommended action to the orchestrator.
type ProcessAnalysis struct {
	explainer  *service.Explainer
	repo       port.AuditRepository
	dispatcher port.ActionDispatcher
	publisher  port.EventPublisher
	logger     *slog.Logger
	now        func() time.Time
}

// NewProcessAnalysis creates a new ProcessAnalysis use case. dispatcher and
// publisher may be nil.
func NewProcessAnalysis(
	explainer *service.Explainer,
	repo port.AuditRepository,
	dispatcher port.ActionDispatcher,
	publisher port.EventPublisher,
	logger *slog.Logger,
) *ProcessAnalysis {
	return &ProcessAnalysis{
		explainer:  explainer,
		repo:       repo,
		dispatcher: dispatcher,
		publisher:  publisher,
		logger:     logger,
		now:        time.Now,
	}
}

// Execute validates the analysis and persists its audit record. Dispatch and
// publish failures are logged and do not fail the request.
func (uc *ProcessAnalysis) Execute(ctx context.Context, req dto.ProcessRequest) (dto.AuditResponse, error) {
	if req.RiskScore == nil {
		return dto.AuditResponse{}, model.ErrMissingScore
	}
	score := *req.RiskScore

	ctx, span := tracer.Start(ctx, "ProcessAnalysis")
	defer span.End()
	span.SetAttributes(
		attribute.String("transaction.id", req.TransactionID),
		attribute.Float64("risk.score", score),
	)

	action, explanation := uc.explainer.Explain(score, req.Rationale)
	record, err := model.NewAuditRecord(req.TransactionID, score, req.Rationale, explanation, action, uc.now())
	if err != nil {
		return dto.AuditResponse{}, err
	}

	if err := uc.repo.Save(ctx, record); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return dto.AuditResponse{}, fmt.Errorf("save audit record: %w", err)
	}

	uc.logger.InfoContext(ctx, "audit record saved",
		"transaction_id", record.TransactionID(),
		"risk_score", record.RiskScore(),
		"risk_level", record.RiskLevel().String(),
		"action", record.Action().String(),
		"analyzed_at", req.Timestamp,
	)

	if uc.dispatcher != nil {
		if err := uc.dispatcher.Execute(ctx, record.TransactionID(), record.RiskScore(), record.Action(), record.Explanation()); err != nil {
			uc.logger.WarnContext(ctx, "failed to dispatch action",
				"transaction_id", record.TransactionID(),
				"action", record.Action().String(),
				"error", err,
			)
		}
	}

	if err := record.Flush(ctx, uc.publisher); err != nil && !errors.Is(err, context.Canceled) {
		uc.logger.WarnContext(ctx, "failed to publish audit events", "transaction_id", record.TransactionID(), "error", err)
	}

	return dto.FromModel(record), nil
}
