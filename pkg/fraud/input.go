package fraud

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrMissingTransactionID = errors.New("transaction_id is required")
	ErrMissingAmount        = errors.New("amount is required")
	ErrMissingTimestamp     = errors.New("timestamp is required")
)

// IsValidationError reports whether err is one of the input validation errors.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrMissingTransactionID) ||
		errors.Is(err, ErrMissingAmount) ||
		errors.Is(err, ErrMissingTimestamp)
}

// TransactionInput is the inbound payload shape. Amount is a pointer so a
// missing amount can be told apart from a zero amount.
type TransactionInput struct {
	TransactionID string           `json:"transaction_id"`
	AccountID     string           `json:"account_id"`
	UserID        string           `json:"user_id,omitempty"`
	Amount        *decimal.Decimal `json:"amount"`
	Label         string           `json:"label,omitempty"`
	Merchant      string           `json:"merchant,omitempty"`
	Category      string           `json:"category,omitempty"`
	Location      string           `json:"location,omitempty"`
	Type          string           `json:"type,omitempty"`
	Timestamp     string           `json:"timestamp"`
	Source        string           `json:"source,omitempty"`
}

// ToRecord validates the input and returns a normalized record.
//
// In strict mode a missing amount or timestamp is rejected. Otherwise the
// amount defaults to zero and the timestamp to now. A malformed (but present)
// timestamp is not a validation error.
func (in TransactionInput) ToRecord(strict bool, now time.Time) (TransactionRecord, error) {
	if strings.TrimSpace(in.TransactionID) == "" {
		return TransactionRecord{}, ErrMissingTransactionID
	}

	amount := decimal.Zero
	if in.Amount != nil {
		amount = *in.Amount
	} else if strict {
		return TransactionRecord{}, ErrMissingAmount
	}

	ts := strings.TrimSpace(in.Timestamp)
	if ts == "" {
		if strict {
			return TransactionRecord{}, ErrMissingTimestamp
		}
		ts = FormatTimestamp(now)
	}

	accountID := in.AccountID
	if accountID == "" {
		accountID = in.UserID
	}

	rec := TransactionRecord{
		TransactionID: strings.TrimSpace(in.TransactionID),
		AccountID:     accountID,
		Amount:        amount,
		Label:         in.Label,
		Merchant:      in.Merchant,
		Category:      in.Category,
		Location:      in.Location,
		Type:          TransactionType(in.Type),
		Timestamp:     ts,
		Source:        in.Source,
	}
	if rec.Type == "" && in.Amount != nil {
		// Signed source amounts carry the direction.
		if in.Amount.IsNegative() {
			rec.Type = TypeDebit
		}
	}
	return rec.Normalize(), nil
}
