// Package metrics exports assessment counters and score distributions.
package metrics

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/fraudguard/fraudguard/services/risk-scorer/internal/domain/model"
)

var scoreBuckets = []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1}

// Recorder implements port.AssessmentRecorder with OpenTelemetry instruments.
type Recorder struct {
	assessments metric.Int64Counter
	scores      metric.Float64Histogram
}

// NewRecorder creates the instruments on meter.
func NewRecorder(meter metric.Meter) (*Recorder, error) {
	assessments, err := meter.Int64Counter("fraudguard_assessments",
		metric.WithDescription("Completed transaction assessments."),
	)
	if err != nil {
		return nil, fmt.Errorf("create assessments counter: %w", err)
	}
	scores, err := meter.Float64Histogram("fraudguard_risk_score",
		metric.WithDescription("Distribution of assigned risk scores."),
		metric.WithExplicitBucketBoundaries(scoreBuckets...),
	)
	if err != nil {
		return nil, fmt.Errorf("create risk score histogram: %w", err)
	}
	return &Recorder{assessments: assessments, scores: scores}, nil
}

// RecordAssessment counts a by level, source and action and observes its score.
func (r *Recorder) RecordAssessment(ctx context.Context, a *model.Assessment) {
	r.assessments.Add(ctx, 1, metric.WithAttributes(
		attribute.String("level", a.RiskLevel().String()),
		attribute.String("source", a.Source().String()),
		attribute.String("action", a.Action().String()),
	))
	r.scores.Record(ctx, a.RiskScore(), metric.WithAttributes(
		attribute.String("source", a.Source().String()),
	))
}
