// Package service builds the dashboard's view of recent transactions.
package service

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fraudguard/fraudguard/pkg/fraud"
)

// MaxRows caps the transactions table.
const MaxRows = 100

const (
	higherRatio         = 1.2
	lowerRatio          = 0.8
	frequencyWindowDays = 30
	minModeCount        = 3
	unusualHourSpread   = 3
)

// Row is one line of the transactions table.
type Row struct {
	TransactionID string
	Date          string
	Time          string
	Amount        string
	Merchant      string
	Level         string
	LevelLabel    string
	Analysis      string
	Explanation   string
	RiskScore     float64
}

// View is everything the dashboard page renders.
type View struct {
	Rows   []Row
	High   int
	Medium int
	Low    int
}

// BuildView orders txs newest first and analyses at most MaxRows of them
// against their peers. Counts cover every transaction.
func BuildView(txs []fraud.TransactionRecord) View {
	var v View
	for _, tx := range txs {
		switch strings.ToLower(tx.RiskLevel) {
		case fraud.RiskLevelHigh.String():
			v.High++
		case fraud.RiskLevelMedium.String():
			v.Medium++
		case fraud.RiskLevelLow.String():
			v.Low++
		}
	}

	sorted := slices.Clone(txs)
	slices.SortStableFunc(sorted, newestFirst)
	if len(sorted) > MaxRows {
		sorted = sorted[:MaxRows]
	}

	v.Rows = make([]Row, 0, len(sorted))
	for _, tx := range sorted {
		v.Rows = append(v.Rows, buildRow(tx, txs))
	}
	return v
}

func buildRow(tx fraud.TransactionRecord, peers []fraud.TransactionRecord) Row {
	level := strings.ToLower(tx.RiskLevel)
	if level == "" {
		level = "pending"
	}
	row := Row{
		TransactionID: tx.TransactionID,
		Amount:        FormatAmount(tx.Amount),
		Merchant:      tx.Counterparty(),
		Level:         level,
		LevelLabel:    titleCase(level),
		Analysis:      Analysis(tx, peers),
	}
	if ts, ok := tx.Time(); ok {
		row.Date = ts.Format("2006-01-02")
		row.Time = ts.Format("15:04")
	}
	if tx.RiskScore != nil {
		row.RiskScore = *tx.RiskScore
	}
	row.Explanation = strings.TrimSpace(tx.RiskExplanation)
	if row.Explanation == "" {
		row.Explanation = row.Analysis
	}
	return row
}

// Analysis describes tx relative to the other transactions of the same
// account and merchant in peers: the risk level, the amount, how it
// compares with the typical amount, recent frequency and an unusual hour.
// The backend explanation is kept apart on Row.
func Analysis(tx fraud.TransactionRecord, peers []fraud.TransactionRecord) string {
	var history []fraud.TransactionRecord
	for _, p := range peers {
		if p.TransactionID != tx.TransactionID && p.AccountID == tx.AccountID && p.Counterparty() == tx.Counterparty() {
			history = append(history, p)
		}
	}

	level := strings.ToLower(tx.RiskLevel)
	if level == "" {
		level = "pending"
	}
	parts := []string{
		titleCase(level) + " risk",
		"Amount " + FormatAmount(tx.Amount),
	}
	if s := compareAmount(tx.Amount, history); s != "" {
		parts = append(parts, s)
	}

	if now, ok := tx.Time(); ok {
		var hours []int
		recent := 0
		for _, h := range history {
			ts, ok := h.Time()
			if !ok {
				continue
			}
			hours = append(hours, ts.Hour())
			if age := now.Sub(ts); age >= 0 && int(age.Hours()/24) <= frequencyWindowDays {
				recent++
			}
		}
		if recent > 0 {
			parts = append(parts, fmt.Sprintf("%d in last 30d", recent))
		}
		if s := unusualHour(now, hours); s != "" {
			parts = append(parts, s)
		}
	}

	return strings.Join(parts, "; ")
}

// compareAmount uses the median of three or more prior amounts, else their mean.
func compareAmount(amount decimal.Decimal, history []fraud.TransactionRecord) string {
	if len(history) == 0 {
		return ""
	}
	amounts := make([]decimal.Decimal, 0, len(history))
	for _, h := range history {
		amounts = append(amounts, h.Amount)
	}

	var typical decimal.Decimal
	if len(amounts) >= 3 {
		typical = fraud.Median(amounts)
	} else {
		typical = decimal.Avg(amounts[0], amounts[1:]...)
	}
	if !typical.IsPositive() {
		return ""
	}

	ratio := amount.Div(typical).InexactFloat64()
	switch {
	case ratio >= higherRatio:
		return fmt.Sprintf("%.1fx higher than typical %s", ratio, FormatAmount(typical))
	case ratio <= lowerRatio:
		if !amount.IsPositive() {
			return "well below typical"
		}
		return fmt.Sprintf("%.1fx lower than typical %s", typical.Div(amount).InexactFloat64(), FormatAmount(typical))
	}
	return ""
}

// unusualHour flags now when the account usually transacts at a different
// time: the most common prior hour appears at least three times and is
// three or more hours away. Ties pick the earlier hour.
func unusualHour(now time.Time, hours []int) string {
	var counts [24]int
	for _, h := range hours {
		counts[h]++
	}
	mode, modeCount := 0, 0
	for h, c := range counts {
		if c > modeCount {
			mode, modeCount = h, c
		}
	}
	if modeCount < minModeCount {
		return ""
	}
	diff := now.Hour() - mode
	if diff < 0 {
		diff = -diff
	}
	if diff < unusualHourSpread {
		return ""
	}
	return fmt.Sprintf("unusual hour (typical ~%02d:00)", mode)
}

// newestFirst orders parseable timestamps descending; unparseable ones sort last.
func newestFirst(a, b fraud.TransactionRecord) int {
	ta, okA := a.Time()
	tb, okB := b.Time()
	switch {
	case okA && okB:
		return tb.Compare(ta)
	case okA:
		return -1
	case okB:
		return 1
	}
	return cmp.Compare(b.Timestamp, a.Timestamp)
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
