package model

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fraudguard/fraudguard/pkg/events"
	"github.com/fraudguard/fraudguard/pkg/fraud"
	"github.com/fraudguard/fraudguard/services/explain-agent/internal/domain/event"
)

var (
	// ErrNotFound is returned when no audit record exists for a transaction.
	ErrNotFound = errors.New("audit record not found")

	// ErrMissingScore is returned when an analysis carries no risk score.
	ErrMissingScore = errors.New("risk_score is required")

	// ErrInvalidScore is returned for a risk score outside [0, 1].
	ErrInvalidScore = errors.New("risk_score must be between 0 and 1")
)

// IsValidationError reports whether err rejects the submitted analysis.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrMissingScore) ||
		errors.Is(err, ErrInvalidScore) ||
		fraud.IsValidationError(err)
}

// AuditRecord is the aggregate root for an explained analysis. There is at
// most one record per transaction; reprocessing replaces it.
type AuditRecord struct {
	events.EventCollector

	recordedAt    time.Time
	transactionID string
	rationale     string
	explanation   string
	riskLevel     fraud.RiskLevel
	action        fraud.Action
	riskScore     float64
	id            int64
}

// NewAuditRecord validates the analysis and records an AuditRecorded event.
func NewAuditRecord(
	transactionID string,
	score float64,
	rationale, explanation string,
	action fraud.Action,
	recordedAt time.Time,
) (*AuditRecord, error) {
	if strings.TrimSpace(transactionID) == "" {
		return nil, fraud.ErrMissingTransactionID
	}
	if score < 0 || score > 1 {
		return nil, fmt.Errorf("%w, got %v", ErrInvalidScore, score)
	}
	if action.IsZero() {
		return nil, fmt.Errorf("action is required")
	}

	r := &AuditRecord{
		transactionID: transactionID,
		riskScore:     score,
		riskLevel:     fraud.Classify(score),
		rationale:     rationale,
		explanation:   explanation,
		action:        action,
		recordedAt:    recordedAt.UTC(),
	}
	r.Record(event.NewAuditRecorded(
		r.transactionID, r.riskScore, r.riskLevel.String(), r.action.String(), r.explanation, r.recordedAt,
	))
	return r, nil
}

// ReconstructAuditRecord rebuilds an AuditRecord from stored data (no validation, no events).
func ReconstructAuditRecord(
	id int64,
	transactionID string,
	score float64,
	rationale, explanation string,
	action fraud.Action,
	recordedAt time.Time,
) *AuditRecord {
	return &AuditRecord{
		id:            id,
		transactionID: transactionID,
		riskScore:     score,
		riskLevel:     fraud.Classify(score),
		rationale:     rationale,
		explanation:   explanation,
		action:        action,
		recordedAt:    recordedAt,
	}
}

// AssignID sets the storage identifier once the record has been persisted.
func (r *AuditRecord) AssignID(id int64) { r.id = id }

// --- Accessors ---

func (r *AuditRecord) ID() int64                  { return r.id }
func (r *AuditRecord) TransactionID() string      { return r.transactionID }
func (r *AuditRecord) RiskScore() float64         { return r.riskScore }
func (r *AuditRecord) RiskLevel() fraud.RiskLevel { return r.riskLevel }
func (r *AuditRecord) Rationale() string          { return r.rationale }
func (r *AuditRecord) Explanation() string        { return r.explanation }
func (r *AuditRecord) Action() fraud.Action       { return r.action }
func (r *AuditRecord) RecordedAt() time.Time      { return r.recordedAt }
