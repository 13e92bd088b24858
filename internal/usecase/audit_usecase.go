package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/iho/gohotel/internal/domain"
)

// AuditUseCase exposes the audit trail.
type AuditUseCase struct {
	auditRepo AuditRepository
}

// NewAuditUseCase creates a new AuditUseCase.
func NewAuditUseCase(auditRepo AuditRepository) *AuditUseCase {
	return &AuditUseCase{auditRepo: auditRepo}
}

// ListAuditLogsInput represents input for querying audit logs.
type ListAuditLogsInput struct {
	Action       string
	ResourceType string
	ResourceID   string
	StartDate    *time.Time
	EndDate      *time.Time
	Limit        int
	Offset       int
}

// ListAuditLogs returns audit logs matching the filter, newest first.
func (uc *AuditUseCase) ListAuditLogs(ctx context.Context, input ListAuditLogsInput) ([]*domain.AuditLog, error) {
	if input.StartDate != nil && input.EndDate != nil && input.EndDate.Before(*input.StartDate) {
		return nil, fmt.Errorf("%w: end date before start date", domain.ErrValidation)
	}

	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)
	return uc.auditRepo.List(ctx, domain.AuditFilter{
		Action:       domain.AuditAction(input.Action),
		ResourceType: input.ResourceType,
		ResourceID:   input.ResourceID,
		StartDate:    input.StartDate,
		EndDate:      input.EndDate,
		Limit:        limit,
		Offset:       offset,
	})
}
