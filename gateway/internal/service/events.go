package service

import (
	"github.com/fraudguard/fraudguard/pkg/events"
	"github.com/fraudguard/fraudguard/pkg/fraud"
)

// EventTypeTransactionIngested is emitted for each newly stored transaction.
const EventTypeTransactionIngested = "fraudguard.transaction.ingested"

// TransactionIngested carries the stored record to downstream consumers.
type TransactionIngested struct {
	events.BaseEvent
	Transaction fraud.TransactionRecord `json:"transaction"`
}

// NewTransactionIngested builds the event keyed by account ID, so one
// account's transactions stay ordered on a single partition.
func NewTransactionIngested(rec fraud.TransactionRecord) TransactionIngested {
	return TransactionIngested{
		BaseEvent:   events.NewBaseEvent(EventTypeTransactionIngested, rec.AccountID),
		Transaction: rec,
	}
}
