package usecase

import (
	"context"

	"github.com/fraudguard/fraudguard/services/explain-agent/internal/application/dto"
	"github.com/fraudguard/fraudguard/services/explain-agent/internal/domain/port"
)

// Listing limits for ListAudits.
const (
	DefaultAuditLimit = 50
	MaxAuditLimit     = 500
)

// GetAudit returns the audit record for one transaction.
type GetAudit struct {
	repo port.AuditRepository
}

// NewGetAudit creates a new GetAudit use case.
func NewGetAudit(repo port.AuditRepository) *GetAudit {
	return &GetAudit{repo: repo}
}

// Execute returns model.ErrNotFound when the transaction was never processed.
func (uc *GetAudit) Execute(ctx context.Context, transactionID string) (dto.AuditResponse, error) {
	record, err := uc.repo.FindByTransactionID(ctx, transactionID)
	if err != nil {
		return dto.AuditResponse{}, err
	}
	return dto.FromModel(record), nil
}

// ListAudits returns the most recent audit records.
type ListAudits struct {
	repo port.AuditRepository
}

// NewListAudits creates a new ListAudits use case.
func NewListAudits(repo port.AuditRepository) *ListAudits {
	return &ListAudits{repo: repo}
}

// Execute lists up to limit records, newest first. Out-of-range limits fall
// back to the default or the maximum.
func (uc *ListAudits) Execute(ctx context.Context, limit int) ([]dto.AuditResponse, error) {
	switch {
	case limit < 1:
		limit = DefaultAuditLimit
	case limit > MaxAuditLimit:
		limit = MaxAuditLimit
	}
	records, err := uc.repo.ListRecent(ctx, limit)
	if err != nil {
		return nil, err
	}
	return dto.FromModels(records), nil
}
