package model

import (
	"github.com/shopspring/decimal"
)

// RecipientStats aggregates the history of one recipient.
type RecipientStats struct {
	Count         int             `json:"count"`
	TypicalAmount decimal.Decimal `json:"typical_amount"`
	// LastSeen is the raw timestamp of the latest parseable record, empty
	// when none of the recipient's records had a parseable timestamp.
	LastSeen string `json:"last_seen,omitempty"`
}

// Velocity counts transactions in the trailing windows ending at the latest
// history timestamp.
type Velocity struct {
	CountLast15m int `json:"count_last_15m"`
	CountLast60m int `json:"count_last_60m"`
}

// HistorySummary is the per-request digest of an account's prior
// transactions. It is never persisted.
type HistorySummary struct {
	KnownRecipients map[string]RecipientStats `json:"known_recipients"`
	TypicalAmount   decimal.Decimal           `json:"typical_amount"`
	CommonHours     []int                     `json:"common_hours"`
	WeekdayCount    int                       `json:"weekday_count"`
	WeekendCount    int                       `json:"weekend_count"`
	Velocity        Velocity                  `json:"velocity"`
	HistoryCount    int                       `json:"history_count"`
}

// Recipient looks up a recipient by its normalized key.
func (s HistorySummary) Recipient(key string) (RecipientStats, bool) {
	if key == "" {
		return RecipientStats{}, false
	}
	st, ok := s.KnownRecipients[key]
	return st, ok
}

// HasCommonHour reports whether hour is among the common hours.
func (s HistorySummary) HasCommonHour(hour int) bool {
	for _, h := range s.CommonHours {
		if h == hour {
			return true
		}
	}
	return false
}

// PatternSignals are the fraud indicators derived from a transaction and
// its account's HistorySummary.
type PatternSignals struct {
	KnownRecipient bool `json:"known_recipient"`
	NewRecipient   bool `json:"new_recipient"`
	// AmountDeviationRatio is nil when the recipient is unknown or has no
	// positive typical amount.
	AmountDeviationRatio *float64 `json:"amount_deviation_ratio"`
	AmountDeviationFlag  bool     `json:"amount_deviation_flag"`
	OffHours             bool     `json:"off_hours"`
	Velocity15m          int      `json:"velocity_15m"`
	Velocity60m          int      `json:"velocity_60m"`
	VelocityFlag         bool     `json:"velocity_flag"`
}
