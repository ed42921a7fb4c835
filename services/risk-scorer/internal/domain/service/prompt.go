package service

import (
	"fmt"
	"strings"

	"github.com/fraudguard/fraudguard/pkg/fraud"
	"github.com/fraudguard/fraudguard/services/risk-scorer/internal/domain/model"
)

// BuildPrompt renders the AI prompt for tx. Identifiers and counterparty
// names are left out; only derived features are sent.
func BuildPrompt(tx fraud.TransactionRecord, summary model.HistorySummary, signals model.PatternSignals) string {
	var b strings.Builder

	b.WriteString("Analyze this transaction for fraud risk. Return only a JSON object with ")
	b.WriteString(`"risk_score" (number between 0.0 and 1.0) and "rationale" (one short sentence).` + "\n\n")

	b.WriteString("Transaction features:\n")
	fmt.Fprintf(&b, "- Amount: %s\n", formatMoney(tx.Amount.Abs()))
	fmt.Fprintf(&b, "- Type: %s\n", tx.Type)
	if tx.Category != "" {
		fmt.Fprintf(&b, "- Category: %s\n", tx.Category)
	}
	if ts, ok := tx.Time(); ok {
		fmt.Fprintf(&b, "- Time: %s UTC on %s\n", ts.Format("15:04"), ts.Weekday())
	} else {
		b.WriteString("- Time: unknown\n")
	}

	b.WriteString("\nAccount history:\n")
	fmt.Fprintf(&b, "- Prior transactions: %d\n", summary.HistoryCount)
	fmt.Fprintf(&b, "- Typical amount: %s\n", formatMoney(summary.TypicalAmount))
	if len(summary.CommonHours) > 0 {
		fmt.Fprintf(&b, "- Common hours: %s\n", formatHours(summary.CommonHours))
	}
	fmt.Fprintf(&b, "- Weekday/weekend split: %d/%d\n", summary.WeekdayCount, summary.WeekendCount)

	b.WriteString("\nSignals:\n")
	fmt.Fprintf(&b, "- Recipient: %s\n", recipientState(signals))
	if signals.AmountDeviationRatio != nil {
		fmt.Fprintf(&b, "- Amount vs recipient typical: %.2fx\n", *signals.AmountDeviationRatio)
	}
	fmt.Fprintf(&b, "- Off usual hours: %t\n", signals.OffHours)
	fmt.Fprintf(&b, "- Velocity: %d in 15m, %d in 60m\n", signals.Velocity15m, signals.Velocity60m)

	return b.String()
}

func recipientState(signals model.PatternSignals) string {
	switch {
	case signals.KnownRecipient:
		return "known"
	case signals.NewRecipient:
		return "new"
	default:
		return "unspecified"
	}
}
