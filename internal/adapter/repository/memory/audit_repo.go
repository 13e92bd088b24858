package memory

import (
	"context"

	"github.com/iho/gohotel/internal/domain"
	"github.com/iho/gohotel/internal/usecase"
)

// AuditRepository implements usecase.AuditRepository.
type AuditRepository struct {
	store *Store
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(store *Store) *AuditRepository {
	return &AuditRepository{store: store}
}

// CreateTx stages an audit log entry.
func (r *AuditRepository) CreateTx(ctx context.Context, tx usecase.Transaction, log *domain.AuditLog) error {
	mt, err := asTx(tx)
	if err != nil {
		return err
	}
	l := *log
	mt.audit = append(mt.audit, &l)
	return nil
}

// List returns matching audit logs, newest first.
func (r *AuditRepository) List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	logs := make([]*domain.AuditLog, 0)
	for i := len(r.store.audit) - 1; i >= 0; i-- {
		l := r.store.audit[i]
		if filter.Action != "" && l.Action != filter.Action {
			continue
		}
		if filter.ResourceType != "" && l.ResourceType != filter.ResourceType {
			continue
		}
		if filter.ResourceID != "" && l.ResourceID != filter.ResourceID {
			continue
		}
		if filter.StartDate != nil && l.CreatedAt.Before(*filter.StartDate) {
			continue
		}
		if filter.EndDate != nil && l.CreatedAt.After(*filter.EndDate) {
			continue
		}
		cp := *l
		logs = append(logs, &cp)
	}

	limit, offset := domain.ValidatePagination(filter.Limit, filter.Offset)
	return page(logs, limit, offset), nil
}
