// Package metrics exports the orchestrator's execution counter.
package metrics

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/fraudguard/fraudguard/services/action-orchestrator/internal/domain/model"
)

// Recorder implements port.ExecutionRecorder with OpenTelemetry instruments.
type Recorder struct {
	executed metric.Int64Counter
}

// NewRecorder creates the instruments on meter.
func NewRecorder(meter metric.Meter) (*Recorder, error) {
	executed, err := meter.Int64Counter("fraudguard_actions_executed",
		metric.WithDescription("Executed actions by action and outcome."),
	)
	if err != nil {
		return nil, fmt.Errorf("create executed counter: %w", err)
	}
	return &Recorder{executed: executed}, nil
}

// RecordExecution counts one executed action.
func (r *Recorder) RecordExecution(ctx context.Context, result *model.ActionResult) {
	r.executed.Add(ctx, 1, metric.WithAttributes(
		attribute.String("action", result.Action().String()),
		attribute.Bool("success", result.Success()),
	))
}
