package service

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fraudguard/fraudguard/pkg/fraud"
	"github.com/fraudguard/fraudguard/services/risk-scorer/internal/domain/model"
)

const (
	maxCommonHours = 3
	shortWindow    = 15 * time.Minute
	longWindow     = 60 * time.Minute
)

// HistorySummarizer condenses an account's prior transactions into the
// statistics the signal extractor and AI prompt work from.
type HistorySummarizer struct{}

// NewHistorySummarizer creates a HistorySummarizer.
func NewHistorySummarizer() *HistorySummarizer {
	return &HistorySummarizer{}
}

type recipientAcc struct {
	amounts  []decimal.Decimal
	lastSeen string
	lastAt   time.Time
}

// Summarize computes the HistorySummary of history. now is the velocity
// reference when no record has a parseable timestamp. The result depends
// only on the multiset of records, not on their order.
func (s *HistorySummarizer) Summarize(history []fraud.TransactionRecord, now time.Time) model.HistorySummary {
	summary := model.HistorySummary{
		KnownRecipients: make(map[string]model.RecipientStats),
		TypicalAmount:   decimal.Zero,
		CommonHours:     []int{},
		HistoryCount:    len(history),
	}
	if len(history) == 0 {
		return summary
	}

	amounts := make([]decimal.Decimal, 0, len(history))
	recipients := make(map[string]*recipientAcc)
	var hourCounts [24]int
	var times []time.Time

	for _, rec := range history {
		amount := rec.Amount.Abs()
		amounts = append(amounts, amount)

		ts, ok := rec.Time()
		if ok {
			times = append(times, ts)
			hourCounts[ts.Hour()]++
			if wd := ts.Weekday(); wd == time.Saturday || wd == time.Sunday {
				summary.WeekendCount++
			} else {
				summary.WeekdayCount++
			}
		}

		key := rec.RecipientKey()
		if key == "" {
			continue
		}
		acc, exists := recipients[key]
		if !exists {
			acc = &recipientAcc{}
			recipients[key] = acc
		}
		acc.amounts = append(acc.amounts, amount)
		if ok && (acc.lastSeen == "" || ts.After(acc.lastAt) || (ts.Equal(acc.lastAt) && rec.Timestamp > acc.lastSeen)) {
			acc.lastAt = ts
			acc.lastSeen = rec.Timestamp
		}
	}

	summary.TypicalAmount = fraud.Median(amounts)
	for key, acc := range recipients {
		summary.KnownRecipients[key] = model.RecipientStats{
			Count:         len(acc.amounts),
			TypicalAmount: fraud.Median(acc.amounts),
			LastSeen:      acc.lastSeen,
		}
	}
	summary.CommonHours = commonHours(hourCounts)
	summary.Velocity = velocity(times, now)

	return summary
}

// commonHours returns up to three hours ordered by count desc, hour asc.
func commonHours(counts [24]int) []int {
	hours := make([]int, 0, 24)
	for h, c := range counts {
		if c > 0 {
			hours = append(hours, h)
		}
	}
	sort.SliceStable(hours, func(i, j int) bool {
		if counts[hours[i]] != counts[hours[j]] {
			return counts[hours[i]] > counts[hours[j]]
		}
		return hours[i] < hours[j]
	})
	if len(hours) > maxCommonHours {
		hours = hours[:maxCommonHours]
	}
	return hours
}

// velocity counts times inside the trailing windows ending at the latest
// time, both boundaries inclusive.
func velocity(times []time.Time, now time.Time) model.Velocity {
	ref := now.UTC()
	if len(times) > 0 {
		ref = times[0]
		for _, t := range times[1:] {
			if t.After(ref) {
				ref = t
			}
		}
	}

	var v model.Velocity
	for _, t := range times {
		if t.After(ref) {
			continue
		}
		age := ref.Sub(t)
		if age <= shortWindow {
			v.CountLast15m++
		}
		if age <= longWindow {
			v.CountLast60m++
		}
	}
	return v
}
