package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gohotel/internal/domain"
)

// CustomerRepository defines data access for customers.
type CustomerRepository interface {
	Create(ctx context.Context, tx Transaction, customer *domain.Customer) error
	GetByID(ctx context.Context, id string) (*domain.Customer, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Customer, error)
	GetByEmail(ctx context.Context, email string) (*domain.Customer, error)
	Update(ctx context.Context, tx Transaction, customer *domain.Customer) error
	List(ctx context.Context, limit, offset int) ([]*domain.Customer, error)
}

// WalletRepository defines data access for wallets and their transactions.
type WalletRepository interface {
	// Create inserts an empty wallet. A second wallet for the same customer fails.
	Create(ctx context.Context, tx Transaction, wallet *domain.Wallet) error
	GetByCustomerID(ctx context.Context, customerID string) (*domain.Wallet, error)
	GetByCustomerIDForUpdate(ctx context.Context, tx Transaction, customerID string) (*domain.Wallet, error)
	// Save persists balance and new transactions if the stored version still equals
	// wallet.Version, and fails with domain.ErrConcurrentModification otherwise.
	Save(ctx context.Context, tx Transaction, wallet *domain.Wallet) error
	ListTransactions(ctx context.Context, walletID string, limit, offset int) ([]*domain.Transaction, error)
}

// BookingRepository defines data access for bookings and their payments.
type BookingRepository interface {
	Create(ctx context.Context, tx Transaction, booking *domain.Booking) error
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Booking, error)
	// Save has the same version semantics as WalletRepository.Save.
	Save(ctx context.Context, tx Transaction, booking *domain.Booking) error
	List(ctx context.Context, filter BookingFilter, limit, offset int) ([]*domain.Booking, error)
}

// BookingFilter narrows booking listings. Empty fields match everything.
type BookingFilter struct {
	CustomerID string
	Status     domain.BookingStatus
}

// LedgerRepository defines hotel-wide read models.
type LedgerRepository interface {
	WalletBalances(ctx context.Context) ([]WalletBalance, error)
	Stats(ctx context.Context) (*Stats, error)
}

// WalletBalance pairs a wallet's stored balance with the sum of its transactions.
type WalletBalance struct {
	WalletID          string
	CustomerID        string
	RecordedBalance   decimal.Decimal
	CalculatedBalance decimal.Decimal
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
	GetByAggregate(ctx context.Context, aggregateType, aggregateID string, limit, offset int) ([]*domain.OutboxEvent, error)
	DeletePublished(ctx context.Context, before time.Time) error
}

// AuditRepository defines data access for audit logs.
type AuditRepository interface {
	CreateTx(ctx context.Context, tx Transaction, log *domain.AuditLog) error
	List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier re-runs an operation on transient storage errors.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyProcessing is the stored value of a key whose first request is still in flight.
const IdempotencyProcessing = "processing"

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release drops a key whose request failed so it can be retried.
	Release(ctx context.Context, key string) error
}
