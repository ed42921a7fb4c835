package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/fraudguard/fraudguard/pkg/fraud"
	"github.com/fraudguard/fraudguard/services/action-orchestrator/internal/application/dto"
	"github.com/fraudguard/fraudguard/services/action-orchestrator/internal/domain/model"
	"github.com/fraudguard/fraudguard/services/action-orchestrator/internal/domain/port"
	"github.com/fraudguard/fraudguard/services/action-orchestrator/internal/domain/service"
)

var tracer = otel.Tracer("github.com/fraudguard/fraudguard/services/action-orchestrator/usecase")

// ExecuteAction runs the requested action and reports the outcome. A failed
// bank call is a failed outcome, not an error.
type ExecuteAction struct {
	dispatcher *service.Dispatcher
	publisher  port.EventPublisher
	recorder   port.ExecutionRecorder
	logger     *slog.Logger
	now        func() time.Time
}

// NewExecuteAction creates a new ExecuteAction use case. publisher and
// recorder may be nil.
func NewExecuteAction(
	dispatcher *service.Dispatcher,
	publisher port.EventPublisher,
	recorder port.ExecutionRecorder,
	logger *slog.Logger,
) *ExecuteAction {
	return &ExecuteAction{
		dispatcher: dispatcher,
		publisher:  publisher,
		recorder:   recorder,
		logger:     logger,
		now:        time.Now,
	}
}

// Execute returns fraud.ErrUnknownAction for an unrecognised action and
// fraud.ErrMissingTransactionID when the transaction is not named.
func (uc *ExecuteAction) Execute(ctx context.Context, req dto.ExecuteRequest) (dto.ActionResponse, error) {
	name := strings.TrimSpace(req.Action)
	if name == "" {
		name = fraud.ActionNotify.String()
	}
	action, err := fraud.ActionFromString(name)
	if err != nil {
		uc.logger.WarnContext(ctx, "unknown action", "action", req.Action, "transaction_id", req.TransactionID)
		return dto.ActionResponse{}, err
	}
	if strings.TrimSpace(req.TransactionID) == "" {
		return dto.ActionResponse{}, fraud.ErrMissingTransactionID
	}

	ctx, span := tracer.Start(ctx, "ExecuteAction")
	defer span.End()
	span.SetAttributes(
		attribute.String("transaction.id", req.TransactionID),
		attribute.String("action", action.String()),
	)

	uc.logger.InfoContext(ctx, "action execution started",
		"transaction_id", req.TransactionID,
		"action", action.String(),
		"risk_score", req.RiskScore,
	)

	outcome, err := uc.dispatcher.Dispatch(ctx, action, req.TransactionID, req.Explanation)
	if err != nil {
		return dto.ActionResponse{}, err
	}
	span.SetAttributes(attribute.Bool("action.success", outcome.Success))

	result, err := model.NewActionResult(req.TransactionID, action, req.RiskScore, outcome.Success, outcome.Message, uc.now())
	if err != nil {
		return dto.ActionResponse{}, err
	}

	uc.logger.InfoContext(ctx, "action execution completed",
		"transaction_id", result.TransactionID(),
		"action", result.Action().String(),
		"success", result.Success(),
	)

	if uc.recorder != nil {
		uc.recorder.RecordExecution(ctx, result)
	}
	if err := result.Flush(ctx, uc.publisher); err != nil && !errors.Is(err, context.Canceled) {
		uc.logger.WarnContext(ctx, "failed to publish action events", "transaction_id", result.TransactionID(), "error", err)
	}

	return dto.FromModel(result), nil
}
