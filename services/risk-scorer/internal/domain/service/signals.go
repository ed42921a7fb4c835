package service

import (
	"github.com/fraudguard/fraudguard/pkg/fraud"
	"github.com/fraudguard/fraudguard/services/risk-scorer/internal/domain/model"
)

const (
	// DeviationFlagRatio is the amount/typical ratio at which a known
	// recipient's payment counts as a deviation.
	DeviationFlagRatio = 1.5
	velocity15mFlag    = 3
	velocity60mFlag    = 5
)

// PatternSignalExtractor derives fraud signals from a transaction and its
// account's history summary.
type PatternSignalExtractor struct{}

// NewPatternSignalExtractor creates a PatternSignalExtractor.
func NewPatternSignalExtractor() *PatternSignalExtractor {
	return &PatternSignalExtractor{}
}

// Extract computes the PatternSignals for tx.
func (e *PatternSignalExtractor) Extract(tx fraud.TransactionRecord, summary model.HistorySummary) model.PatternSignals {
	signals := model.PatternSignals{
		Velocity15m: summary.Velocity.CountLast15m,
		Velocity60m: summary.Velocity.CountLast60m,
	}
	signals.VelocityFlag = signals.Velocity15m >= velocity15mFlag || signals.Velocity60m >= velocity60mFlag

	key := tx.RecipientKey()
	if key != "" {
		stats, known := summary.Recipient(key)
		signals.KnownRecipient = known
		signals.NewRecipient = !known
		if known && stats.TypicalAmount.IsPositive() {
			ratio := tx.Amount.Abs().Div(stats.TypicalAmount).Round(4).InexactFloat64()
			signals.AmountDeviationRatio = &ratio
			signals.AmountDeviationFlag = ratio >= DeviationFlagRatio
		}
	}

	// Without a temporal baseline there is nothing to be "off" from.
	if ts, ok := tx.Time(); ok && len(summary.CommonHours) > 0 {
		signals.OffHours = !summary.HasCommonHour(ts.Hour())
	}

	return signals
}
