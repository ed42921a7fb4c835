package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/fraudguard/fraudguard/pkg/fraud"
	"github.com/fraudguard/fraudguard/services/risk-scorer/internal/domain/model"
	"github.com/fraudguard/fraudguard/services/risk-scorer/internal/domain/service"
)

// Pipeline runs one transaction through summarize, extract, score and
// recommend, producing an Assessment.
type Pipeline struct {
	summarizer *service.HistorySummarizer
	extractor  *service.PatternSignalExtractor
	scorer     *service.HybridScorer
	policy     *fraud.ActionPolicy
	now        func() time.Time
}

// NewPipeline creates a Pipeline around the given scorer and policy.
func NewPipeline(scorer *service.HybridScorer, policy *fraud.ActionPolicy) *Pipeline {
	return &Pipeline{
		summarizer: service.NewHistorySummarizer(),
		extractor:  service.NewPatternSignalExtractor(),
		scorer:     scorer,
		policy:     policy,
		now:        time.Now,
	}
}

// Assess scores tx against history. Only records prior to tx count: those
// sharing tx's ID or stamped after it are ignored.
func (p *Pipeline) Assess(ctx context.Context, tx fraud.TransactionRecord, history []fraud.TransactionRecord) (*model.Assessment, error) {
	history = priorHistory(history, tx)
	now := p.now()

	summary := p.summarizer.Summarize(history, now)
	signals := p.extractor.Extract(tx, summary)
	result := p.scorer.Score(ctx, tx, summary, signals)
	action := p.policy.Recommend(result.Score)

	assessment, err := model.NewAssessment(
		tx.TransactionID,
		tx.AccountID,
		result.Score,
		result.Rationale,
		result.Source,
		action,
		signals,
		summary.HistoryCount,
		now,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create assessment: %w", err)
	}
	return assessment, nil
}

// priorHistory keeps the records that precede tx. Records with an
// unparseable timestamp are kept for amount stats; when tx's own timestamp
// is unparseable only the ID filter applies.
func priorHistory(history []fraud.TransactionRecord, tx fraud.TransactionRecord) []fraud.TransactionRecord {
	cutoff, hasCutoff := tx.Time()
	out := make([]fraud.TransactionRecord, 0, len(history))
	for _, rec := range history {
		if rec.TransactionID == tx.TransactionID {
			continue
		}
		if ts, ok := rec.Time(); ok && hasCutoff && ts.After(cutoff) {
			continue
		}
		out = append(out, rec.Normalize())
	}
	return out
}
