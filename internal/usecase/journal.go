package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/iho/gohotel/internal/domain"
)

// journal writes the outbox event and audit log of a mutation inside its transaction.
type journal struct {
	outboxRepo OutboxRepository
	auditRepo  AuditRepository
	idGen      IDGenerator
}

type journalEntry struct {
	aggregateType string
	aggregateID   string
	eventType     string
	payload       any
	action        domain.AuditAction
	before        domain.JSON
	after         domain.JSON
}

func (j journal) record(ctx context.Context, tx Transaction, e journalEntry) error {
	if j.outboxRepo != nil {
		event := domain.NewOutboxEvent(j.idGen.Generate(), e.aggregateType, e.aggregateID, e.eventType, e.payload)
		if err := j.outboxRepo.Create(ctx, tx, event); err != nil {
			return err
		}
	}

	if j.auditRepo != nil {
		auditLog := &domain.AuditLog{
			ID:           j.idGen.Generate(),
			Action:       e.action,
			ResourceType: e.aggregateType,
			ResourceID:   e.aggregateID,
			RequestID:    domain.RequestIDFromContext(ctx),
			BeforeState:  e.before,
			AfterState:   e.after,
			Status:       domain.AuditStatusSuccess,
			CreatedAt:    time.Now().UTC(),
		}
		if err := j.auditRepo.CreateTx(ctx, tx, auditLog); err != nil {
			return err
		}
	}

	return nil
}

// ensureWallet loads the customer's wallet for update, creating it on first use.
func ensureWallet(ctx context.Context, tx Transaction, repo WalletRepository, idGen IDGenerator, customerID string) (*domain.Wallet, error) {
	wallet, err := repo.GetByCustomerIDForUpdate(ctx, tx, customerID)
	if err == nil {
		return wallet, nil
	}
	if !errors.Is(err, domain.ErrWalletNotFound) {
		return nil, err
	}

	wallet, err = domain.NewWallet(idGen.Generate(), customerID, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	if err := repo.Create(ctx, tx, wallet); err != nil {
		return nil, err
	}
	return wallet, nil
}

func retry(ctx context.Context, r Retrier, op func() error) error {
	if r == nil {
		return op()
	}
	return r.Retry(ctx, op)
}
