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
	"golang.org/x/sync/errgroup"

	"github.com/fraudguard/fraudguard/pkg/dedup"
	"github.com/fraudguard/fraudguard/pkg/fraud"
	"github.com/fraudguard/fraudguard/services/txn-watcher/internal/application/dto"
	"github.com/fraudguard/fraudguard/services/txn-watcher/internal/domain/port"
)

var tracer = otel.Tracer("github.com/fraudguard/fraudguard/services/txn-watcher/usecase")

// Options configures a Watcher.
type Options struct {
	Accounts     []string
	FetchLimit   int
	Concurrency  int
	PollInterval time.Duration
}

// Watcher polls accounts for new transactions and sends each one for
// analysis exactly once. A transaction is only marked as seen after the
// analyzer accepted it, so failed sends are retried on the next poll.
type Watcher struct {
	source   port.TransactionSource
	analyzer port.Analyzer
	seen     *dedup.Set
	opts     Options
	logger   *slog.Logger
	now      func() time.Time

	mu        sync.Mutex
	running   bool
	lastPoll  time.Time
	processed int64
}

// NewWatcher creates a Watcher.
func NewWatcher(source port.TransactionSource, analyzer port.Analyzer, seen *dedup.Set, opts Options, logger *slog.Logger) *Watcher {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	return &Watcher{
		source:   source,
		analyzer: analyzer,
		seen:     seen,
		opts:     opts,
		logger:   logger,
		now:      time.Now,
		lastPoll: time.Now().UTC(),
	}
}

// Run polls immediately and then on every tick until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	w.setRunning(true)
	defer w.setRunning(false)

	w.logger.InfoContext(ctx, "transaction watcher started",
		"poll_interval", w.opts.PollInterval,
		"accounts", w.opts.Accounts,
	)

	ticker := time.NewTicker(w.opts.PollInterval)
	defer ticker.Stop()

	for {
		if _, err := w.PollOnce(ctx); err != nil && !errors.Is(err, context.Canceled) {
			w.logger.ErrorContext(ctx, "poll failed", "error", err)
		}
		select {
		case <-ctx.Done():
			w.logger.Info("transaction watcher stopped")
			return nil
		case <-ticker.C:
		}
	}
}

// PollOnce fetches every watched account concurrently and forwards the
// transactions not seen before. It returns how many were forwarded. A
// failing account is logged and skipped.
func (w *Watcher) PollOnce(ctx context.Context) (int, error) {
	ctx, span := tracer.Start(ctx, "PollOnce")
	defer span.End()

	w.mu.Lock()
	w.lastPoll = w.now().UTC()
	w.mu.Unlock()

	batches := make([][]fraud.TransactionRecord, len(w.opts.Accounts))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(w.opts.Concurrency)
	for i, accountID := range w.opts.Accounts {
		g.Go(func() error {
			records, err := w.source.RecentTransactions(gctx, accountID, w.opts.FetchLimit)
			if err != nil {
				if errors.Is(err, context.Canceled) {
					return err
				}
				w.logger.ErrorContext(gctx, "transaction fetch failed", "account_id", accountID, "error", err)
				return nil
			}
			w.logger.InfoContext(gctx, "transactions fetched", "account_id", accountID, "count", len(records))
			batches[i] = records
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, fmt.Errorf("fetch transactions: %w", err)
	}

	total, forwarded := 0, 0
	for _, batch := range batches {
		for _, rec := range batch {
			total++
			ok, err := w.Process(ctx, rec)
			if err != nil && errors.Is(err, context.Canceled) {
				return forwarded, err
			}
			if ok {
				forwarded++
			}
		}
	}

	span.SetAttributes(
		attribute.Int("transactions.total", total),
		attribute.Int("transactions.forwarded", forwarded),
	)
	w.logger.InfoContext(ctx, "poll completed", "total_transactions", total, "new_transactions", forwarded)
	return forwarded, nil
}

// Process forwards rec unless it was already analyzed. It reports whether
// rec was forwarded. Analyzer failures are logged and returned.
func (w *Watcher) Process(ctx context.Context, rec fraud.TransactionRecord) (bool, error) {
	if rec.TransactionID == "" || w.seen.Seen(rec.TransactionID) {
		return false, nil
	}
	if err := w.analyzer.Analyze(ctx, rec); err != nil {
		w.logger.ErrorContext(ctx, "risk analysis failed", "transaction_id", rec.TransactionID, "error", err)
		return false, err
	}
	if !w.seen.Add(rec.TransactionID) {
		// Another path forwarded it while this one was in flight.
		return false, nil
	}

	w.mu.Lock()
	w.processed++
	w.mu.Unlock()

	w.logger.InfoContext(ctx, "transaction sent for analysis", "transaction_id", rec.TransactionID)
	return true, nil
}

// Status reports the watcher's progress.
func (w *Watcher) Status() dto.StatusResponse {
	w.mu.Lock()
	defer w.mu.Unlock()

	status := dto.StatusStopped
	if w.running {
		status = dto.StatusRunning
	}
	return dto.StatusResponse{
		Status:              status,
		LastPoll:            w.lastPoll,
		ProcessedCount:      w.processed,
		PollIntervalSeconds: int(w.opts.PollInterval / time.Second),
		TrackedIDs:          w.seen.Len(),
	}
}

func (w *Watcher) setRunning(running bool) {
	w.mu.Lock()
	w.running = running
	w.mu.Unlock()
}
