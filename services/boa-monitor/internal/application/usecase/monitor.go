package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/fraudguard/fraudguard/pkg/boa"
	"github.com/fraudguard/fraudguard/pkg/dedup"
	"github.com/fraudguard/fraudguard/services/boa-monitor/internal/application/dto"
	"github.com/fraudguard/fraudguard/services/boa-monitor/internal/domain/port"
)

var tracer = otel.Tracer("github.com/fraudguard/fraudguard/services/boa-monitor/usecase")

// SyncStatusSuccess is reported by a completed sync.
const SyncStatusSuccess = "success"

// Options configures a Monitor.
type Options struct {
	PollInterval time.Duration
	LedgerURL    string
	GatewayURL   string
}

// Monitor mirrors the bank ledger into the gateway. An entry is marked as
// seen only once the gateway accepted it, so failed forwards are retried.
// Entries missing an amount or timestamp are rejected and marked.
// A nil ledger, or one that fails, is replaced by the sample feed.
type Monitor struct {
	ledger   port.Ledger
	ingestor port.Ingestor
	seen     *dedup.Set
	opts     Options
	logger   *slog.Logger
	now      func() time.Time

	mu        sync.Mutex
	running   bool
	lastPoll  *time.Time
	forwarded int64
}

// NewMonitor creates a Monitor.
func NewMonitor(ledger port.Ledger, ingestor port.Ingestor, seen *dedup.Set, opts Options, logger *slog.Logger) *Monitor {
	return &Monitor{
		ledger:   ledger,
		ingestor: ingestor,
		seen:     seen,
		opts:     opts,
		logger:   logger,
		now:      time.Now,
	}
}

// Run syncs immediately and then on every tick until ctx is cancelled.
func (m *Monitor) Run(ctx context.Context) error {
	m.setRunning(true)
	defer m.setRunning(false)

	m.logger.InfoContext(ctx, "starting boa transaction monitoring",
		"poll_interval", m.opts.PollInterval,
		"boa_ledger_url", m.opts.LedgerURL,
		"mcp_gateway_url", m.opts.GatewayURL,
	)

	ticker := time.NewTicker(m.opts.PollInterval)
	defer ticker.Stop()

	for {
		if _, err := m.Sync(ctx); err != nil && !errors.Is(err, context.Canceled) {
			m.logger.ErrorContext(ctx, "monitoring cycle failed", "error", err)
		}
		select {
		case <-ctx.Done():
			m.logger.Info("boa monitor stopped")
			return nil
		case <-ticker.C:
		}
	}
}

// Sync forwards ledger entries not forwarded before.
func (m *Monitor) Sync(ctx context.Context) (dto.SyncResponse, error) {
	return m.sync(ctx, true)
}

// ManualSync forwards every entry the ledger currently lists, including
// ones already forwarded. The gateway reports those as duplicates.
func (m *Monitor) ManualSync(ctx context.Context) (dto.SyncResponse, error) {
	return m.sync(ctx, false)
}

func (m *Monitor) sync(ctx context.Context, skipSeen bool) (dto.SyncResponse, error) {
	ctx, span := tracer.Start(ctx, "Sync")
	defer span.End()

	now := m.now().UTC()
	entries := m.fetch(ctx, now)

	resp := dto.SyncResponse{Status: SyncStatusSuccess, TransactionsFound: len(entries)}
	fresh := 0
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return resp, fmt.Errorf("sync interrupted: %w", err)
		}
		in := entry.ToInput()
		if skipSeen && m.seen.Seen(in.TransactionID) {
			continue
		}
		fresh++

		if _, err := in.ToRecord(true, now); err != nil {
			m.logger.WarnContext(ctx, "rejecting incomplete ledger entry", "transaction_id", in.TransactionID, "error", err)
			m.seen.Add(in.TransactionID)
			resp.TransactionsRejected++
			continue
		}

		status, err := m.ingestor.Ingest(ctx, in)
		if err != nil {
			m.logger.WarnContext(ctx, "failed to forward transaction", "transaction_id", in.TransactionID, "error", err)
			continue
		}
		m.seen.Add(in.TransactionID)
		resp.TransactionsForwarded++
		m.logger.InfoContext(ctx, "transaction forwarded to fraudguard",
			"transaction_id", in.TransactionID,
			"amount", in.Amount.String(),
			"merchant", in.Merchant,
			"ingest_status", status,
		)
	}

	m.mu.Lock()
	m.lastPoll = &now
	m.forwarded += int64(resp.TransactionsForwarded)
	m.mu.Unlock()

	span.SetAttributes(
		attribute.Int("transactions.found", resp.TransactionsFound),
		attribute.Int("transactions.forwarded", resp.TransactionsForwarded),
		attribute.Int("transactions.rejected", resp.TransactionsRejected),
	)
	if fresh > 0 {
		m.logger.InfoContext(ctx, "monitoring cycle completed",
			"new_transactions", fresh,
			"forwarded_transactions", resp.TransactionsForwarded,
			"total_processed", m.seen.Len(),
		)
	}
	return resp, nil
}

func (m *Monitor) fetch(ctx context.Context, now time.Time) []boa.LedgerTransaction {
	if m.ledger == nil {
		return boa.SampleTransactions(now)
	}
	entries, err := m.ledger.Transactions(ctx, "", 0)
	if err != nil {
		m.logger.WarnContext(ctx, "boa ledger unavailable, using sample transactions", "error", err)
		return boa.SampleTransactions(now)
	}
	return entries
}

// Status reports the monitor's progress.
func (m *Monitor) Status() dto.StatusResponse {
	m.mu.Lock()
	defer m.mu.Unlock()

	status := "stopped"
	if m.running {
		status = "running"
	}
	return dto.StatusResponse{
		Service:               "boa-monitor",
		Status:                status,
		ProcessedTransactions: m.seen.Len(),
		ForwardedCount:        m.forwarded,
		PollIntervalSeconds:   int(m.opts.PollInterval / time.Second),
		LedgerURL:             m.opts.LedgerURL,
		GatewayURL:            m.opts.GatewayURL,
		LastPoll:              m.lastPoll,
	}
}

func (m *Monitor) setRunning(running bool) {
	m.mu.Lock()
	m.running = running
	m.mu.Unlock()
}
