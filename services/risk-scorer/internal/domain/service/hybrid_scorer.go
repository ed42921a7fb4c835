package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/fraudguard/fraudguard/pkg/fraud"
	"github.com/fraudguard/fraudguard/services/risk-scorer/internal/domain/model"
	"github.com/fraudguard/fraudguard/services/risk-scorer/internal/domain/port"
	"github.com/fraudguard/fraudguard/services/risk-scorer/internal/domain/valueobject"
)

// ErrInvalidAIResponse is returned by ParseAIResponse for replies that do not
// carry a usable score and rationale.
var ErrInvalidAIResponse = errors.New("invalid AI response")

// ScoreResult is the outcome of scoring one transaction.
type ScoreResult struct {
	Score     float64
	Rationale string
	Source    valueobject.ScoreSource
}

// HybridScorer tries the AI scorer first and falls back to the heuristic.
// With no AI configured the heuristic is used directly.
type HybridScorer struct {
	heuristic *HeuristicRiskScorer
	ai        port.AIScorer
	timeout   time.Duration
	logger    *slog.Logger
}

// NewHybridScorer creates a HybridScorer. ai may be nil.
func NewHybridScorer(heuristic *HeuristicRiskScorer, ai port.AIScorer, timeout time.Duration, logger *slog.Logger) *HybridScorer {
	return &HybridScorer{
		heuristic: heuristic,
		ai:        ai,
		timeout:   timeout,
		logger:    logger,
	}
}

// AIEnabled reports whether an AI scorer is configured.
func (h *HybridScorer) AIEnabled() bool {
	return h.ai != nil
}

// Score evaluates tx. It always returns a valid result.
func (h *HybridScorer) Score(ctx context.Context, tx fraud.TransactionRecord, summary model.HistorySummary, signals model.PatternSignals) ScoreResult {
	if h.ai != nil {
		res, err := h.scoreWithAI(ctx, tx, summary, signals)
		if err == nil {
			return res
		}
		h.logger.WarnContext(ctx, "AI scoring failed, using heuristic scoring",
			"transaction_id", tx.TransactionID,
			"error", err,
		)
	}

	score, rationale := h.heuristic.Score(tx, summary, signals)
	return ScoreResult{Score: score, Rationale: rationale, Source: valueobject.ScoreSourceHeuristic}
}

func (h *HybridScorer) scoreWithAI(ctx context.Context, tx fraud.TransactionRecord, summary model.HistorySummary, signals model.PatternSignals) (ScoreResult, error) {
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	reply, err := h.ai.Generate(ctx, BuildPrompt(tx, summary, signals))
	if err != nil {
		return ScoreResult{}, fmt.Errorf("generate: %w", err)
	}

	score, rationale, err := ParseAIResponse(reply)
	if err != nil {
		return ScoreResult{}, err
	}

	score, floored := h.heuristic.ApplyFloor(score, tx, signals)
	if floored {
		rationale += "; Large payment to a never-seen recipient"
	}

	return ScoreResult{Score: Finalize(score), Rationale: rationale, Source: valueobject.ScoreSourceAI}, nil
}

// ParseAIResponse accepts only {"risk_score": number in [0,1], "rationale":
// non-empty string}, optionally wrapped in a Markdown code fence.
func ParseAIResponse(reply string) (float64, string, error) {
	body := stripCodeFence(reply)

	var parsed struct {
		RiskScore *float64 `json:"risk_score"`
		Rationale *string  `json:"rationale"`
	}
	if err := json.Unmarshal([]byte(body), &parsed); err != nil {
		return 0, "", fmt.Errorf("%w: %v", ErrInvalidAIResponse, err)
	}
	if parsed.RiskScore == nil {
		return 0, "", fmt.Errorf("%w: missing risk_score", ErrInvalidAIResponse)
	}
	if *parsed.RiskScore < 0 || *parsed.RiskScore > 1 {
		return 0, "", fmt.Errorf("%w: risk_score %v out of range", ErrInvalidAIResponse, *parsed.RiskScore)
	}
	if parsed.Rationale == nil || strings.TrimSpace(*parsed.Rationale) == "" {
		return 0, "", fmt.Errorf("%w: missing rationale", ErrInvalidAIResponse)
	}

	return *parsed.RiskScore, strings.TrimSpace(*parsed.Rationale), nil
}

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	// Drop an optional language tag on the opening fence.
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
