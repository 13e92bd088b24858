package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/iho/gohotel/internal/adapter/repository/memory"
	"github.com/iho/gohotel/internal/adapter/repository/postgres"
	"github.com/iho/gohotel/internal/domain"
	"github.com/iho/gohotel/internal/infrastructure/metrics"
	"github.com/iho/gohotel/internal/usecase"
)

type testEnv struct {
	store     *memory.Store
	metrics   *metrics.Metrics
	outbox    *memory.OutboxRepository
	audit     *memory.AuditRepository
	customers *usecase.CustomerUseCase
	wallets   *usecase.WalletUseCase
	bookings  *usecase.BookingUseCase
	stats     *usecase.StatsUseCase
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := memory.NewStore()
	txManager := memory.NewTxManager(store)
	customerRepo := memory.NewCustomerRepository(store)
	walletRepo := memory.NewWalletRepository(store)
	bookingRepo := memory.NewBookingRepository(store)
	outboxRepo := memory.NewOutboxRepository(store)
	auditRepo := memory.NewAuditRepository(store)
	idGen := postgres.NewULIDGenerator()
	m := metrics.NewWithRegistry(prometheus.NewRegistry())
	logger := zerolog.Nop()

	return &testEnv{
		store:     store,
		metrics:   m,
		outbox:    outboxRepo,
		audit:     auditRepo,
		customers: usecase.NewCustomerUseCase(txManager, customerRepo, outboxRepo, auditRepo, idGen, m, logger),
		wallets:   usecase.NewWalletUseCase(txManager, customerRepo, walletRepo, outboxRepo, auditRepo, idGen, nil, m, logger),
		bookings:  usecase.NewBookingUseCase(txManager, customerRepo, walletRepo, bookingRepo, outboxRepo, auditRepo, idGen, nil, m, logger),
		stats:     usecase.NewStatsUseCase(memory.NewLedgerRepository(store), nil, 0, m, logger),
	}
}

func (e *testEnv) createCustomer(t *testing.T, email string) *domain.Customer {
	t.Helper()
	c, err := e.customers.CreateCustomer(context.Background(), usecase.CreateCustomerInput{
		FullName: "Jane Guest",
		Email:    email,
		Phone:    "+33 6 12 34 56 78",
	})
	require.NoError(t, err)
	return c
}

func (e *testEnv) credit(t *testing.T, customerID string, euros int64) *usecase.CreditResult {
	t.Helper()
	res, err := e.wallets.CreditWallet(context.Background(), usecase.CreditWalletInput{
		CustomerID: customerID,
		Amount:     decimal.NewFromInt(euros),
		Reason:     "Top up",
	})
	require.NoError(t, err)
	return res
}

func (e *testEnv) book(t *testing.T, customerID, roomType string, quantity, nights int) *domain.Booking {
	t.Helper()
	b, err := e.bookings.CreateBooking(context.Background(), usecase.CreateBookingInput{
		CustomerID:   customerID,
		RoomType:     roomType,
		RoomQuantity: quantity,
		CheckIn:      time.Now().UTC().AddDate(0, 0, 14),
		Nights:       nights,
	})
	require.NoError(t, err)
	return b
}
