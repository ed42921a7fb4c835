package service

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/fraudguard/fraudguard/pkg/fraud"
	"github.com/fraudguard/fraudguard/services/risk-scorer/internal/domain/model"
)

// Score bounds. A score is never exactly 0 or 1.
const (
	MinScore = 0.05
	MaxScore = 0.95
)

var (
	amountHigh     = decimal.NewFromInt(2000)
	amountElevated = decimal.NewFromInt(1000)
	amountModerate = decimal.NewFromInt(500)
)

// HeuristicConfig tunes the new-recipient override.
type HeuristicConfig struct {
	// HighAmountThreshold is the amount above which a payment to a new
	// recipient is floored at NewRecipientMinScore.
	HighAmountThreshold  decimal.Decimal
	NewRecipientMinScore float64
}

// DefaultHeuristicConfig returns the production defaults.
func DefaultHeuristicConfig() HeuristicConfig {
	return HeuristicConfig{
		HighAmountThreshold:  decimal.NewFromInt(1000),
		NewRecipientMinScore: 0.8,
	}
}

// HeuristicRiskScorer is the deterministic rule-based scorer. It is used on
// its own when no AI is configured and as the fallback when the AI fails.
type HeuristicRiskScorer struct {
	cfg HeuristicConfig
}

// NewHeuristicRiskScorer creates a HeuristicRiskScorer.
func NewHeuristicRiskScorer(cfg HeuristicConfig) *HeuristicRiskScorer {
	return &HeuristicRiskScorer{cfg: cfg}
}

// Score returns a score in [MinScore, MaxScore] and a non-empty rationale.
// It never fails.
func (s *HeuristicRiskScorer) Score(tx fraud.TransactionRecord, summary model.HistorySummary, signals model.PatternSignals) (float64, string) {
	amount := tx.Amount.Abs()
	score := 0.1
	reasons := make([]string, 0, 6)

	// Rule: amount bands.
	switch {
	case amount.GreaterThan(amountHigh):
		score += 0.5
		reasons = append(reasons, "High amount "+formatMoney(amount))
	case amount.GreaterThan(amountElevated):
		score += 0.4
		reasons = append(reasons, "Elevated amount "+formatMoney(amount))
	case amount.GreaterThan(amountModerate):
		score += 0.2
		reasons = append(reasons, "Moderate amount "+formatMoney(amount))
	}

	// Rule: early-morning UTC hours.
	if ts, ok := tx.Time(); ok {
		if h := ts.Hour(); h >= 1 && h <= 3 {
			score += 0.2
			reasons = append(reasons, fmt.Sprintf("Unusual transaction time %02d:00 UTC", h))
		}
	}

	// Rule: new recipient, with a floor for large payments.
	if signals.NewRecipient {
		reasons = append(reasons, "New recipient: first transaction to "+tx.Counterparty())
	}
	var floored bool
	score, floored = s.applyFloor(score, amount, signals)
	if floored {
		reasons = append(reasons, "Large payment to a never-seen recipient")
	}

	// Rule: deviation from the recipient's typical amount.
	if signals.AmountDeviationFlag && signals.AmountDeviationRatio != nil {
		score += 0.3
		typical := summary.KnownRecipients[tx.RecipientKey()].TypicalAmount
		reasons = append(reasons, fmt.Sprintf("Amount is %.1fx higher than typical %s", *signals.AmountDeviationRatio, formatMoney(typical)))
	}

	// Rule: velocity burst.
	if signals.VelocityFlag {
		score += 0.2
		reasons = append(reasons, fmt.Sprintf("High velocity: %d transactions in 15m, %d in 60m", signals.Velocity15m, signals.Velocity60m))
	}

	// Rule: outside the account's usual hours.
	if signals.OffHours {
		score += 0.1
		reasons = append(reasons, "Outside usual hours (typical "+formatHours(summary.CommonHours)+")")
	}

	if len(reasons) == 0 {
		reasons = append(reasons, "Normal transaction pattern")
	}
	reasons = append(reasons, historyContext(summary, tx.RecipientKey()))

	return Finalize(score), strings.Join(reasons, "; ")
}

// ApplyFloor raises score to the new-recipient minimum when the override
// applies. It never lowers a score.
func (s *HeuristicRiskScorer) ApplyFloor(score float64, tx fraud.TransactionRecord, signals model.PatternSignals) (float64, bool) {
	return s.applyFloor(score, tx.Amount.Abs(), signals)
}

func (s *HeuristicRiskScorer) applyFloor(score float64, amount decimal.Decimal, signals model.PatternSignals) (float64, bool) {
	if signals.NewRecipient && amount.GreaterThan(s.cfg.HighAmountThreshold) && score < s.cfg.NewRecipientMinScore {
		return s.cfg.NewRecipientMinScore, true
	}
	return score, false
}

// Finalize rounds to four decimals and clamps into [MinScore, MaxScore].
func Finalize(score float64) float64 {
	if math.IsNaN(score) {
		return MinScore
	}
	score = math.Round(score*10000) / 10000
	return math.Min(MaxScore, math.Max(MinScore, score))
}

// historyContext never reports missing history when HistoryCount > 0.
func historyContext(summary model.HistorySummary, recipientKey string) string {
	if summary.HistoryCount == 0 {
		return "No prior history for this account"
	}
	ctx := fmt.Sprintf("Based on %d prior transactions", summary.HistoryCount)
	if st, ok := summary.Recipient(recipientKey); ok {
		ctx += fmt.Sprintf(", %d with this recipient", st.Count)
	}
	return ctx
}

func formatMoney(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

func formatHours(hours []int) string {
	parts := make([]string, len(hours))
	for i, h := range hours {
		parts[i] = fmt.Sprintf("%02d:00", h)
	}
	return strings.Join(parts, ", ")
}
