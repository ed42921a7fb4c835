// Package service implements the gateway's account and transaction
// operations on top of the store, the bank upstream and demo simulation.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/fraudguard/fraudguard/gateway/internal/store"
	"github.com/fraudguard/fraudguard/pkg/boa"
	"github.com/fraudguard/fraudguard/pkg/events"
	"github.com/fraudguard/fraudguard/pkg/fraud"
)

var tracer = otel.Tracer("github.com/fraudguard/fraudguard/gateway/internal/service")

// ErrInvalidScore is returned when an attached score is outside [0, 1].
var ErrInvalidScore = errors.New("risk_score must be within [0, 1]")

// Ingest outcomes.
const (
	StatusAccepted  = "accepted"
	StatusDuplicate = "duplicate"
)

// SourceAPI tags records submitted without a source.
const SourceAPI = "api"

// Upstream lists ledger entries from the bank.
type Upstream interface {
	Transactions(ctx context.Context, accountID string, limit int) ([]boa.LedgerTransaction, error)
}

// IngestRecorder counts ingest outcomes.
type IngestRecorder interface {
	RecordIngest(ctx context.Context, source, status string)
}

// Account is the read-only account summary.
type Account struct {
	AccountID   string          `json:"account_id"`
	Balance     decimal.Decimal `json:"balance"`
	AccountType string          `json:"account_type"`
}

// IngestResult is the reply to a submitted transaction.
type IngestResult struct {
	Status        string    `json:"status"`
	TransactionID string    `json:"transaction_id"`
	Message       string    `json:"message"`
	Timestamp     time.Time `json:"timestamp"`
}

// Options configures Transactions.
type Options struct {
	StrictValidation bool
	// Simulate serves generated history for accounts nobody knows.
	Simulate bool
}

// Transactions is the gateway's application service.
type Transactions struct {
	store     store.Store
	upstream  Upstream
	publisher events.Publisher
	recorder  IngestRecorder
	opts      Options
	logger    *slog.Logger
	now       func() time.Time
}

// NewTransactions wires the service. upstream, publisher and recorder may
// be nil.
func NewTransactions(
	s store.Store,
	upstream Upstream,
	publisher events.Publisher,
	recorder IngestRecorder,
	opts Options,
	logger *slog.Logger,
) *Transactions {
	return &Transactions{
		store:     s,
		upstream:  upstream,
		publisher: publisher,
		recorder:  recorder,
		opts:      opts,
		logger:    logger,
		now:       time.Now,
	}
}

// Account returns the demo account summary for id.
func (t *Transactions) Account(_ context.Context, id string) Account {
	return Account{
		AccountID:   id,
		Balance:     simulatedBalance(id),
		AccountType: "checking",
	}
}

// AccountTransactions returns up to limit records for accountID, newest
// first. Stored records win; otherwise the bank is asked, then simulation
// fills in when enabled. Upstream failures are logged and skipped.
func (t *Transactions) AccountTransactions(ctx context.Context, accountID string, limit int) ([]fraud.TransactionRecord, error) {
	ctx, span := tracer.Start(ctx, "gateway.AccountTransactions",
		trace.WithAttributes(attribute.String("account_id", accountID), attribute.Int("limit", limit)),
	)
	defer span.End()

	recs, err := t.store.ListByAccount(ctx, accountID, limit)
	if err != nil {
		return nil, fmt.Errorf("list stored transactions: %w", err)
	}
	if len(recs) > 0 {
		span.SetAttributes(attribute.String("history.source", "store"))
		return recs, nil
	}

	if t.upstream != nil {
		recs = t.fromUpstream(ctx, accountID, limit)
		if len(recs) > 0 {
			span.SetAttributes(attribute.String("history.source", "upstream"))
			return recs, nil
		}
	}

	if t.opts.Simulate {
		span.SetAttributes(attribute.String("history.source", "simulated"))
		return Simulate(accountID, limit, t.now()), nil
	}
	return []fraud.TransactionRecord{}, nil
}

func (t *Transactions) fromUpstream(ctx context.Context, accountID string, limit int) []fraud.TransactionRecord {
	entries, err := t.upstream.Transactions(ctx, accountID, limit)
	if err != nil {
		t.logger.WarnContext(ctx, "bank upstream unavailable", "account_id", accountID, "error", err)
		return nil
	}

	now := t.now()
	recs := make([]fraud.TransactionRecord, 0, len(entries))
	for _, e := range entries {
		rec, err := e.ToInput().ToRecord(t.opts.StrictValidation, now)
		if err != nil {
			t.logger.DebugContext(ctx, "skipping upstream entry", "transaction_id", e.TransactionID, "error", err)
			continue
		}
		if rec.AccountID != accountID {
			continue
		}
		recs = append(recs, rec)
	}
	sortNewestFirst(recs)
	if len(recs) > limit {
		recs = recs[:limit]
	}
	return recs
}

// Ingest validates, normalizes and stores a submitted transaction. A
// transaction ID seen before yields StatusDuplicate and changes nothing.
func (t *Transactions) Ingest(ctx context.Context, in fraud.TransactionInput) (IngestResult, error) {
	ctx, span := tracer.Start(ctx, "gateway.Ingest",
		trace.WithAttributes(attribute.String("transaction_id", in.TransactionID)),
	)
	defer span.End()

	now := t.now()
	rec, err := in.ToRecord(t.opts.StrictValidation, now)
	if err != nil {
		return IngestResult{}, err
	}
	if rec.Source == "" {
		rec.Source = SourceAPI
	}

	created, err := t.store.Save(ctx, rec)
	if err != nil {
		return IngestResult{}, fmt.Errorf("store transaction: %w", err)
	}

	result := IngestResult{
		Status:        StatusAccepted,
		TransactionID: rec.TransactionID,
		Message:       "Transaction submitted for processing",
		Timestamp:     now.UTC(),
	}
	if !created {
		result.Status = StatusDuplicate
		result.Message = "Transaction already received"
	}
	if t.recorder != nil {
		t.recorder.RecordIngest(ctx, rec.Source, result.Status)
	}
	span.SetAttributes(attribute.String("ingest.status", result.Status))

	if !created {
		t.logger.InfoContext(ctx, "duplicate transaction ignored", "transaction_id", rec.TransactionID)
		return result, nil
	}

	t.logger.InfoContext(ctx, "transaction accepted",
		"transaction_id", rec.TransactionID,
		"account_id", rec.AccountID,
		"amount", rec.Amount.String(),
		"source", rec.Source,
	)
	if t.publisher != nil {
		if err := t.publisher.Publish(ctx, NewTransactionIngested(rec)); err != nil {
			t.logger.WarnContext(ctx, "failed to publish ingest event", "transaction_id", rec.TransactionID, "error", err)
		}
	}
	return result, nil
}

// Recent returns up to limit stored records across all accounts, newest first.
func (t *Transactions) Recent(ctx context.Context, limit int) ([]fraud.TransactionRecord, error) {
	recs, err := t.store.Recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent transactions: %w", err)
	}
	return recs, nil
}

// Transaction returns one stored record.
func (t *Transactions) Transaction(ctx context.Context, id string) (fraud.TransactionRecord, error) {
	return t.store.Get(ctx, id)
}

// AttachRisk records the score for a stored transaction. The level is
// derived from the score.
func (t *Transactions) AttachRisk(ctx context.Context, id string, score float64, rationale string) (fraud.TransactionRecord, error) {
	if score < 0 || score > 1 {
		return fraud.TransactionRecord{}, ErrInvalidScore
	}

	rec, err := t.store.AttachRisk(ctx, id, score, rationale)
	if err != nil {
		return fraud.TransactionRecord{}, err
	}
	t.logger.InfoContext(ctx, "risk attached",
		"transaction_id", id,
		"risk_score", score,
		"risk_level", rec.RiskLevel,
	)
	return rec, nil
}

func sortNewestFirst(recs []fraud.TransactionRecord) {
	sort.SliceStable(recs, func(i, j int) bool {
		ti, okI := recs[i].Time()
		tj, okJ := recs[j].Time()
		if okI != okJ {
			return okI
		}
		return ti.After(tj)
	})
}
