package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/gohotel/internal/domain"
	"github.com/iho/gohotel/internal/infrastructure/metrics"
)

// CustomerUseCase handles customer registration and lifecycle.
type CustomerUseCase struct {
	txManager    TransactionManager
	customerRepo CustomerRepository
	journal      journal
	idGen        IDGenerator
	metrics      *metrics.Metrics
	logger       zerolog.Logger
}

// NewCustomerUseCase creates a new CustomerUseCase.
func NewCustomerUseCase(
	txManager TransactionManager,
	customerRepo CustomerRepository,
	outboxRepo OutboxRepository,
	auditRepo AuditRepository,
	idGen IDGenerator,
	metrics *metrics.Metrics,
	logger zerolog.Logger,
) *CustomerUseCase {
	return &CustomerUseCase{
		txManager:    txManager,
		customerRepo: customerRepo,
		journal:      journal{outboxRepo: outboxRepo, auditRepo: auditRepo, idGen: idGen},
		idGen:        idGen,
		metrics:      metrics,
		logger:       logger.With().Str("component", "customer_usecase").Logger(),
	}
}

// CreateCustomerInput represents input for registering a customer.
type CreateCustomerInput struct {
	FullName string
	Email    string
	Phone    string
}

// CreateCustomer registers a customer. Emails are unique.
func (uc *CustomerUseCase) CreateCustomer(ctx context.Context, input CreateCustomerInput) (*domain.Customer, error) {
	customer, err := domain.NewCustomer(uc.idGen.Generate(), input.FullName, input.Email, input.Phone, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	if err := uc.ensureEmailFree(ctx, customer.Email, ""); err != nil {
		return nil, err
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	if err := uc.customerRepo.Create(txCtx, tx, customer); err != nil {
		return nil, err
	}

	if err := uc.journal.record(txCtx, tx, journalEntry{
		aggregateType: domain.AggregateTypeCustomer,
		aggregateID:   customer.ID,
		eventType:     domain.EventTypeCustomerCreated,
		payload:       customerEvent(customer),
		action:        domain.AuditActionCustomerCreate,
		after:         domain.CustomerSnapshot(customer),
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.CustomersCreated.Inc()
	}
	uc.logger.Info().Str("customer_id", customer.ID).Msg("customer created")

	return customer, nil
}

// GetCustomer retrieves a customer by ID.
func (uc *CustomerUseCase) GetCustomer(ctx context.Context, id string) (*domain.Customer, error) {
	return uc.customerRepo.GetByID(ctx, id)
}

// ListCustomersInput represents input for listing customers.
type ListCustomersInput struct {
	Limit  int
	Offset int
}

// ListCustomers lists customers with pagination.
func (uc *CustomerUseCase) ListCustomers(ctx context.Context, input ListCustomersInput) ([]*domain.Customer, error) {
	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)
	return uc.customerRepo.List(ctx, limit, offset)
}

// UpdateCustomerInput carries the fields to change. Empty fields are kept.
type UpdateCustomerInput struct {
	ID       string
	FullName string
	Email    string
	Phone    string
}

// UpdateCustomer changes a customer's name and contact details.
func (uc *CustomerUseCase) UpdateCustomer(ctx context.Context, input UpdateCustomerInput) (*domain.Customer, error) {
	if strings.TrimSpace(input.Email) != "" {
		email, err := domain.NormalizeEmail(input.Email)
		if err != nil {
			return nil, err
		}
		if err := uc.ensureEmailFree(ctx, email, input.ID); err != nil {
			return nil, err
		}
	}

	return uc.mutate(ctx, input.ID, domain.EventTypeCustomerUpdated, domain.AuditActionCustomerUpdate, func(c *domain.Customer) error {
		if strings.TrimSpace(input.FullName) != "" {
			if err := c.Rename(input.FullName); err != nil {
				return err
			}
		}
		return c.UpdateContact(input.Email, input.Phone)
	})
}

// SuspendCustomer blocks a customer from crediting and booking.
func (uc *CustomerUseCase) SuspendCustomer(ctx context.Context, id string) (*domain.Customer, error) {
	return uc.mutate(ctx, id, domain.EventTypeCustomerSuspended, domain.AuditActionCustomerSuspend, (*domain.Customer).Suspend)
}

// ReactivateCustomer lifts a suspension.
func (uc *CustomerUseCase) ReactivateCustomer(ctx context.Context, id string) (*domain.Customer, error) {
	return uc.mutate(ctx, id, domain.EventTypeCustomerReactivated, domain.AuditActionCustomerReactivate, (*domain.Customer).Reactivate)
}

func (uc *CustomerUseCase) mutate(
	ctx context.Context,
	id string,
	eventType string,
	action domain.AuditAction,
	change func(*domain.Customer) error,
) (*domain.Customer, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	customer, err := uc.customerRepo.GetByIDForUpdate(txCtx, tx, id)
	if err != nil {
		return nil, err
	}
	before := domain.CustomerSnapshot(customer)

	if err := change(customer); err != nil {
		return nil, err
	}

	if err := uc.customerRepo.Update(txCtx, tx, customer); err != nil {
		return nil, err
	}

	if err := uc.journal.record(txCtx, tx, journalEntry{
		aggregateType: domain.AggregateTypeCustomer,
		aggregateID:   customer.ID,
		eventType:     eventType,
		payload:       customerEvent(customer),
		action:        action,
		before:        before,
		after:         domain.CustomerSnapshot(customer),
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.CustomerOperations.WithLabelValues(string(action)).Inc()
	}
	uc.logger.Info().Str("customer_id", customer.ID).Str("action", string(action)).Msg("customer updated")

	return customer, nil
}

func (uc *CustomerUseCase) ensureEmailFree(ctx context.Context, email, ownerID string) error {
	existing, err := uc.customerRepo.GetByEmail(ctx, email)
	switch {
	case errors.Is(err, domain.ErrCustomerNotFound):
		return nil
	case err != nil:
		return err
	case existing.ID != ownerID:
		return domain.ErrEmailAlreadyUsed
	}
	return nil
}

func customerEvent(c *domain.Customer) domain.CustomerEvent {
	return domain.CustomerEvent{
		CustomerID: c.ID,
		Email:      c.Email,
		Status:     string(c.Status),
	}
}
