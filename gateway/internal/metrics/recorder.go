// Package metrics exports the gateway ingest counter.
package metrics

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Recorder implements service.IngestRecorder with OpenTelemetry instruments.
type Recorder struct {
	ingested metric.Int64Counter
}

// NewRecorder creates the instruments on meter.
func NewRecorder(meter metric.Meter) (*Recorder, error) {
	ingested, err := meter.Int64Counter("fraudguard_transactions_ingested",
		metric.WithDescription("Submitted transactions by source and outcome."),
	)
	if err != nil {
		return nil, fmt.Errorf("create ingested counter: %w", err)
	}
	return &Recorder{ingested: ingested}, nil
}

// RecordIngest counts one submission.
func (r *Recorder) RecordIngest(ctx context.Context, source, status string) {
	r.ingested.Add(ctx, 1, metric.WithAttributes(
		attribute.String("source", source),
		attribute.String("status", status),
	))
}
