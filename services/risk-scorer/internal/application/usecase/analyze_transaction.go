package usecase

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/fraudguard/fraudguard/pkg/fraud"
	"github.com/fraudguard/fraudguard/pkg/httpclient"
	"github.com/fraudguard/fraudguard/services/risk-scorer/internal/application/dto"
	"github.com/fraudguard/fraudguard/services/risk-scorer/internal/domain/model"
	"github.com/fraudguard/fraudguard/services/risk-scorer/internal/domain/port"
)

var tracer = otel.Tracer("github.com/fraudguard/fraudguard/services/risk-scorer/usecase")

// AnalyzeConfig tunes AnalyzeTransaction.
type AnalyzeConfig struct {
	HistoryLimit     int
	StrictValidation bool
}

// AnalyzeTransaction scores a live transaction: it loads the account's
// history, assesses the transaction and fans the result out to the gateway,
// the explanation service and the event bus. Only invalid input fails it.
type AnalyzeTransaction struct {
	pipeline  *Pipeline
	history   port.HistoryReader
	attacher  port.RiskAttacher
	forwarder port.ExplanationForwarder
	cache     port.AssessmentCache
	publisher port.EventPublisher
	recorder  port.AssessmentRecorder
	cfg       AnalyzeConfig
	logger    *slog.Logger
	now       func() time.Time
}

// NewAnalyzeTransaction creates a new AnalyzeTransaction use case.
func NewAnalyzeTransaction(
	pipeline *Pipeline,
	history port.HistoryReader,
	attacher port.RiskAttacher,
	forwarder port.ExplanationForwarder,
	cache port.AssessmentCache,
	publisher port.EventPublisher,
	recorder port.AssessmentRecorder,
	cfg AnalyzeConfig,
	logger *slog.Logger,
) *AnalyzeTransaction {
	return &AnalyzeTransaction{
		pipeline:  pipeline,
		history:   history,
		attacher:  attacher,
		forwarder: forwarder,
		cache:     cache,
		publisher: publisher,
		recorder:  recorder,
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
	}
}

// Execute validates and assesses the transaction. Invalid input yields a
// fraud validation error; downstream failures never surface.
func (uc *AnalyzeTransaction) Execute(ctx context.Context, in fraud.TransactionInput) (dto.AssessmentResponse, error) {
	tx, err := in.ToRecord(uc.cfg.StrictValidation, uc.now())
	if err != nil {
		return dto.AssessmentResponse{}, err
	}

	ctx, span := tracer.Start(ctx, "AnalyzeTransaction")
	defer span.End()
	span.SetAttributes(attribute.String("transaction.id", tx.TransactionID))

	if cached := uc.lookup(ctx, tx.TransactionID); cached != nil {
		span.SetAttributes(attribute.Bool("assessment.cached", true))
		resp := dto.FromModel(cached)
		resp.Cached = true
		return resp, nil
	}

	history := uc.loadHistory(ctx, tx)

	assessment, err := uc.pipeline.Assess(ctx, tx, history)
	if err != nil {
		// Unreachable with a clamped score and a set source.
		span.SetStatus(codes.Error, err.Error())
		return dto.AssessmentResponse{}, err
	}
	span.SetAttributes(
		attribute.Float64("risk.score", assessment.RiskScore()),
		attribute.String("risk.level", assessment.RiskLevel().String()),
		attribute.String("risk.source", assessment.Source().String()),
	)

	uc.logger.InfoContext(ctx, "transaction assessed",
		"transaction_id", assessment.TransactionID(),
		"account_id", assessment.AccountID(),
		"risk_score", assessment.RiskScore(),
		"risk_level", assessment.RiskLevel().String(),
		"action", assessment.Action().String(),
		"source", assessment.Source().String(),
		"history_count", assessment.HistoryCount(),
	)

	if uc.recorder != nil {
		uc.recorder.RecordAssessment(ctx, assessment)
	}
	uc.dispatch(ctx, assessment)

	return dto.FromModel(assessment), nil
}

func (uc *AnalyzeTransaction) lookup(ctx context.Context, transactionID string) *model.Assessment {
	if uc.cache == nil {
		return nil
	}
	cached, err := uc.cache.Get(ctx, transactionID)
	if err != nil {
		uc.logger.WarnContext(ctx, "assessment cache lookup failed", "transaction_id", transactionID, "error", err)
		return nil
	}
	if cached != nil {
		uc.logger.DebugContext(ctx, "returning cached assessment", "transaction_id", transactionID)
	}
	return cached
}

func (uc *AnalyzeTransaction) loadHistory(ctx context.Context, tx fraud.TransactionRecord) []fraud.TransactionRecord {
	if tx.AccountID == "" || uc.history == nil {
		return nil
	}
	// One extra so the transaction itself can be dropped without losing a record.
	history, err := uc.history.RecentTransactions(ctx, tx.AccountID, uc.cfg.HistoryLimit+1)
	if err != nil {
		uc.logger.WarnContext(ctx, "history fetch failed, scoring without history",
			"account_id", tx.AccountID,
			"error", err,
		)
		return nil
	}
	history = priorHistory(history, tx)
	if len(history) > uc.cfg.HistoryLimit {
		history = history[:uc.cfg.HistoryLimit]
	}
	return history
}

// dispatch delivers the assessment downstream. Failures are logged only.
func (uc *AnalyzeTransaction) dispatch(ctx context.Context, assessment *model.Assessment) {
	id := assessment.TransactionID()

	if uc.attacher != nil {
		err := uc.attacher.AttachRisk(ctx, id, assessment.RiskScore(), assessment.Rationale())
		switch {
		case err == nil:
		case httpclient.IsStatus(err, http.StatusConflict):
			uc.logger.InfoContext(ctx, "transaction already scored on gateway", "transaction_id", id)
		case httpclient.IsStatus(err, http.StatusNotFound):
			uc.logger.DebugContext(ctx, "transaction not stored on gateway", "transaction_id", id)
		default:
			uc.logger.WarnContext(ctx, "failed to attach risk score", "transaction_id", id, "error", err)
		}
	}

	if uc.forwarder != nil {
		if err := uc.forwarder.Forward(ctx, assessment); err != nil {
			uc.logger.WarnContext(ctx, "failed to forward assessment for explanation", "transaction_id", id, "error", err)
		}
	}

	if err := assessment.Flush(ctx, uc.publisher); err != nil && !errors.Is(err, context.Canceled) {
		uc.logger.WarnContext(ctx, "failed to publish assessment events", "transaction_id", id, "error", err)
	}

	if uc.cache != nil {
		if err := uc.cache.Set(ctx, assessment); err != nil {
			uc.logger.WarnContext(ctx, "failed to cache assessment", "transaction_id", id, "error", err)
		}
	}
}
