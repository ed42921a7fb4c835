// Package consumer turns gateway ingestion events into watcher work.
package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/fraudguard/fraudguard/pkg/fraud"
	"github.com/fraudguard/fraudguard/pkg/kafka"
)

// Processor handles one ingested transaction.
type Processor interface {
	Process(ctx context.Context, rec fraud.TransactionRecord) (bool, error)
}

type ingestedEvent struct {
	Transaction fraud.TransactionRecord `json:"transaction"`
}

// IngestedHandler decodes transaction-ingested events and hands the record
// to p. Malformed payloads are dropped so they do not block the partition.
func IngestedHandler(p Processor, logger *slog.Logger) kafka.Handler {
	return func(ctx context.Context, msg kafka.Message) error {
		var evt ingestedEvent
		if err := json.Unmarshal(msg.Value, &evt); err != nil {
			logger.WarnContext(ctx, "dropping malformed ingestion event", "key", string(msg.Key), "error", err)
			return nil
		}
		if evt.Transaction.TransactionID == "" {
			logger.WarnContext(ctx, "dropping ingestion event without transaction id", "key", string(msg.Key))
			return nil
		}
		if _, err := p.Process(ctx, evt.Transaction); err != nil {
			return fmt.Errorf("process %s: %w", evt.Transaction.TransactionID, err)
		}
		return nil
	}
}
