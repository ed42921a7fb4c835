// Package fraud holds the transaction model and the risk vocabulary shared by
// every FraudGuard service: risk levels, recommended actions and the policy
// that maps a score to an action.
package fraud

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Amounts travel as JSON numbers between services.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// TransactionType classifies the direction of a transaction.
type TransactionType string

const (
	TypeDebit   TransactionType = "debit"
	TypeCredit  TransactionType = "credit"
	TypeUnknown TransactionType = "unknown"
)

// ParseTransactionType maps free-form input onto a known type.
// Anything unrecognised becomes TypeUnknown.
func ParseTransactionType(s string) TransactionType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debit":
		return TypeDebit
	case "credit":
		return TypeCredit
	default:
		return TypeUnknown
	}
}

// TransactionRecord is the normalized transaction passed between services.
//
// Timestamp keeps the raw value as received so that records with malformed
// timestamps can still contribute to amount statistics.
type TransactionRecord struct {
	TransactionID   string          `json:"transaction_id"`
	AccountID       string          `json:"account_id"`
	Amount          decimal.Decimal `json:"amount"`
	Label           string          `json:"label,omitempty"`
	Merchant        string          `json:"merchant,omitempty"`
	Category        string          `json:"category,omitempty"`
	Location        string          `json:"location,omitempty"`
	Type            TransactionType `json:"type"`
	Timestamp       string          `json:"timestamp"`
	Source          string          `json:"source,omitempty"`
	RiskScore       *float64        `json:"risk_score,omitempty"`
	RiskLevel       string          `json:"risk_level,omitempty"`
	RiskExplanation string          `json:"risk_explanation,omitempty"`
}

// Normalize returns a copy with a non-negative amount and a known type.
func (t TransactionRecord) Normalize() TransactionRecord {
	t.Amount = t.Amount.Abs()
	t.Type = ParseTransactionType(string(t.Type))
	return t
}

// Counterparty returns the label, falling back to the merchant name.
func (t TransactionRecord) Counterparty() string {
	if strings.TrimSpace(t.Label) != "" {
		return t.Label
	}
	return t.Merchant
}

// RecipientKey is the normalized grouping key for recipient history.
func (t TransactionRecord) RecipientKey() string {
	return RecipientKey(t.Label, t.Merchant)
}

// Time parses the timestamp. The boolean is false for missing or malformed values.
func (t TransactionRecord) Time() (time.Time, bool) {
	return ParseTimestamp(t.Timestamp)
}

// IsScored reports whether a risk score has been attached.
func (t TransactionRecord) IsScored() bool {
	return t.RiskScore != nil
}

// AttachRisk sets the score, the derived level and the explanation.
func (t *TransactionRecord) AttachRisk(score float64, explanation string) {
	s := score
	t.RiskScore = &s
	t.RiskLevel = Classify(score).String()
	t.RiskExplanation = explanation
}

// RecipientKey lowercases the label (or merchant when the label is empty).
// Inter-account partners written as "acct:<id>" match case-insensitively and
// lose any whitespace after the prefix.
func RecipientKey(label, merchant string) string {
	raw := strings.TrimSpace(label)
	if raw == "" {
		raw = strings.TrimSpace(merchant)
	}
	key := strings.ToLower(raw)
	if rest, ok := strings.CutPrefix(key, "acct:"); ok {
		return "acct:" + strings.TrimSpace(rest)
	}
	return key
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
}

// ParseTimestamp accepts RFC 3339 and zone-less ISO 8601 forms.
// Zone-less values are read as UTC. The result is always in UTC.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts.UTC(), true
		}
	}
	return time.Time{}, false
}

// FormatTimestamp renders t the way records carry it on the wire.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
