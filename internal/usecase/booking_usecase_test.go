package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/iho/gohotel/internal/domain"
	"github.com/iho/gohotel/internal/usecase"
	"github.com/iho/gohotel/internal/usecase/mocks"
)

func TestBookingUseCase_EndToEndPayment(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	customer := env.createCustomer(t, "guest@example.com")

	wallet, err := env.wallets.GetWallet(ctx, customer.ID)
	require.NoError(t, err)
	assert.True(t, wallet.Balance().IsZero())

	credited := env.credit(t, customer.ID, 500)
	assert.True(t, credited.Wallet.Balance().Equal(domain.Euros(500)))

	booking := env.book(t, customer.ID, "STANDARD", 1, 2)
	assert.True(t, booking.TotalAmount.Equal(domain.Euros(100)))
	assert.True(t, booking.DepositAmount().Equal(domain.Euros(50)))
	assert.True(t, booking.BalanceAmount().Equal(domain.Euros(50)))
	assert.Equal(t, domain.BookingStatusPending, booking.Status())

	deposit, err := env.bookings.PayDeposit(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusPending, deposit.Booking.Status())
	require.Len(t, deposit.Booking.Payments(), 1)
	assert.Equal(t, domain.PaymentTypeDeposit, deposit.Payment.Type)
	assert.True(t, deposit.Payment.Amount.Equal(domain.Euros(50)))
	assert.Equal(t, domain.TransactionTypeDebit, deposit.Transaction.Type)
	assert.True(t, deposit.Wallet.Balance().Equal(domain.Euros(450)))

	balance, err := env.bookings.PayBalance(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusConfirmed, balance.Booking.Status())
	payments := balance.Booking.Payments()
	require.Len(t, payments, 2)
	assert.Equal(t, domain.PaymentTypeDeposit, payments[0].Type)
	assert.Equal(t, domain.PaymentTypeBalance, payments[1].Type)

	stored, err := env.bookings.GetBooking(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusConfirmed, stored.Status())
	assert.True(t, stored.TotalPaid().Equal(domain.Euros(100)))

	wallet, err = env.wallets.GetWallet(ctx, customer.ID)
	require.NoError(t, err)
	assert.True(t, wallet.Balance().Equal(domain.Euros(400)), "got %s", wallet.Balance())

	history, err := env.wallets.GetTransactionHistory(ctx, usecase.GetTransactionHistoryInput{CustomerID: customer.ID})
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, domain.TransactionTypeDebit, history[0].Type)
	assert.Equal(t, domain.TransactionTypeCredit, history[2].Type)

	events, err := env.bookings.ListBookingEvents(ctx, usecase.ListBookingEventsInput{BookingID: booking.ID})
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, domain.EventTypeBookingCreated, events[0].EventType)
	assert.Equal(t, domain.EventTypeDepositPaid, events[1].EventType)
	assert.Equal(t, domain.EventTypeBookingConfirmed, events[2].EventType)

	page, err := env.bookings.ListBookingEvents(ctx, usecase.ListBookingEventsInput{BookingID: booking.ID, Limit: 1, Offset: 2})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, domain.EventTypeBookingConfirmed, page[0].EventType)

	_, err = env.bookings.ListBookingEvents(ctx, usecase.ListBookingEventsInput{BookingID: "missing"})
	assert.ErrorIs(t, err, domain.ErrBookingNotFound)

	audit, err := env.audit.List(ctx, domain.AuditFilter{ResourceID: booking.ID})
	require.NoError(t, err)
	assert.Len(t, audit, 3)

	assert.Equal(t, 1.0, testutil.ToFloat64(env.metrics.PaymentsProcessed.WithLabelValues("DEPOSIT")))
	assert.Equal(t, 1.0, testutil.ToFloat64(env.metrics.BookingsConfirmed))

	report, err := env.stats.ReconcileWallets(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.TotalWallets)
	assert.Empty(t, report.Discrepancies)
}

func TestBookingUseCase_InsufficientFundsLeavesBookingUntouched(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	customer := env.createCustomer(t, "poor@example.com")
	env.credit(t, customer.ID, 30)
	booking := env.book(t, customer.ID, "STANDARD", 1, 2)

	_, err := env.bookings.PayDeposit(ctx, booking.ID)
	require.ErrorIs(t, err, domain.ErrInsufficientFunds)

	var fundsErr *domain.InsufficientFundsError
	require.True(t, errors.As(err, &fundsErr))
	assert.True(t, fundsErr.Required.Equal(domain.Euros(50)))
	assert.True(t, fundsErr.Shortfall().Equal(domain.Euros(20)))

	stored, err := env.bookings.GetBooking(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusPending, stored.Status())
	assert.Empty(t, stored.Payments())

	wallet, err := env.wallets.GetWallet(ctx, customer.ID)
	require.NoError(t, err)
	assert.True(t, wallet.Balance().Equal(domain.Euros(30)))
	assert.Len(t, wallet.Transactions(), 1)

	assert.Equal(t, 1.0, testutil.ToFloat64(env.metrics.PaymentErrors.WithLabelValues("DEPOSIT", "insufficient_funds")))
}

func TestBookingUseCase_PaymentOrdering(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	customer := env.createCustomer(t, "order@example.com")
	env.credit(t, customer.ID, 1000)
	booking := env.book(t, customer.ID, "SUPERIOR", 1, 3)

	_, err := env.bookings.PayBalance(ctx, booking.ID)
	assert.ErrorIs(t, err, domain.ErrDepositRequired)

	_, err = env.bookings.PayDeposit(ctx, booking.ID)
	require.NoError(t, err)

	_, err = env.bookings.PayDeposit(ctx, booking.ID)
	assert.ErrorIs(t, err, domain.ErrDepositAlreadyPaid)

	wallet, err := env.wallets.GetWallet(ctx, customer.ID)
	require.NoError(t, err)
	assert.True(t, wallet.Balance().Equal(domain.Euros(850)), "rejected payments must not debit, got %s", wallet.Balance())

	_, err = env.bookings.PayBalance(ctx, booking.ID)
	require.NoError(t, err)

	_, err = env.bookings.PayBalance(ctx, booking.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestBookingUseCase_Cancel(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	customer := env.createCustomer(t, "cancel@example.com")
	env.credit(t, customer.ID, 200)
	booking := env.book(t, customer.ID, "STANDARD", 1, 2)

	_, err := env.bookings.PayDeposit(ctx, booking.ID)
	require.NoError(t, err)

	cancelled, err := env.bookings.CancelBooking(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusCancelled, cancelled.Status())

	_, err = env.bookings.CancelBooking(ctx, booking.ID)
	assert.ErrorIs(t, err, domain.ErrAlreadyCancelled)

	_, err = env.bookings.PayBalance(ctx, booking.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	wallet, err := env.wallets.GetWallet(ctx, customer.ID)
	require.NoError(t, err)
	assert.True(t, wallet.Balance().Equal(domain.Euros(150)), "cancel does not refund")

	_, err = env.bookings.CancelBooking(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrBookingNotFound)
}

func TestBookingUseCase_CreateBookingValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	customer := env.createCustomer(t, "valid@example.com")
	future := time.Now().UTC().AddDate(0, 0, 3)

	tests := []struct {
		name        string
		input       usecase.CreateBookingInput
		expectError error
	}{
		{
			name:        "unknown room type",
			input:       usecase.CreateBookingInput{CustomerID: customer.ID, RoomType: "PENTHOUSE", RoomQuantity: 1, CheckIn: future, Nights: 1},
			expectError: domain.ErrValidation,
		},
		{
			name:        "past check-in",
			input:       usecase.CreateBookingInput{CustomerID: customer.ID, RoomType: "SUITE", RoomQuantity: 1, CheckIn: time.Now().AddDate(0, 0, -2), Nights: 1},
			expectError: domain.ErrValidation,
		},
		{
			name:        "too many nights",
			input:       usecase.CreateBookingInput{CustomerID: customer.ID, RoomType: "SUITE", RoomQuantity: 1, CheckIn: future, Nights: 366},
			expectError: domain.ErrValidation,
		},
		{
			name:        "zero rooms",
			input:       usecase.CreateBookingInput{CustomerID: customer.ID, RoomType: "SUITE", RoomQuantity: 0, CheckIn: future, Nights: 1},
			expectError: domain.ErrValidation,
		},
		{
			name:        "unknown customer",
			input:       usecase.CreateBookingInput{CustomerID: "nobody", RoomType: "SUITE", RoomQuantity: 1, CheckIn: future, Nights: 1},
			expectError: domain.ErrCustomerNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.bookings.CreateBooking(ctx, tt.input)
			assert.ErrorIs(t, err, tt.expectError)
		})
	}

	_, err := env.customers.SuspendCustomer(ctx, customer.ID)
	require.NoError(t, err)
	_, err = env.bookings.CreateBooking(ctx, usecase.CreateBookingInput{
		CustomerID: customer.ID, RoomType: "SUITE", RoomQuantity: 2, CheckIn: future, Nights: 4,
	})
	assert.ErrorIs(t, err, domain.ErrCustomerInactive)
}

func TestBookingUseCase_ListBookings(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.createCustomer(t, "alice@example.com")
	bob := env.createCustomer(t, "bob@example.com")
	env.book(t, alice.ID, "STANDARD", 1, 1)
	second := env.book(t, alice.ID, "SUITE", 1, 1)
	env.book(t, bob.ID, "SUPERIOR", 2, 1)

	_, err := env.bookings.CancelBooking(ctx, second.ID)
	require.NoError(t, err)

	all, err := env.bookings.ListBookings(ctx, usecase.ListBookingsInput{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	mine, err := env.bookings.ListBookings(ctx, usecase.ListBookingsInput{CustomerID: alice.ID})
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	cancelled, err := env.bookings.ListBookings(ctx, usecase.ListBookingsInput{Status: "CANCELLED"})
	require.NoError(t, err)
	require.Len(t, cancelled, 1)
	assert.Equal(t, second.ID, cancelled[0].ID)

	_, err = env.bookings.ListBookings(ctx, usecase.ListBookingsInput{Status: "LOST"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = env.bookings.ListBookings(ctx, usecase.ListBookingsInput{CustomerID: "nobody"})
	assert.ErrorIs(t, err, domain.ErrCustomerNotFound)
}

func TestBookingUseCase_PayDepositRollsBackOnSaveFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	txManager := mocks.NewMockTransactionManager(ctrl)
	tx := mocks.NewMockTransaction(ctrl)
	customerRepo := mocks.NewMockCustomerRepository(ctrl)
	walletRepo := mocks.NewMockWalletRepository(ctrl)
	bookingRepo := mocks.NewMockBookingRepository(ctrl)
	outboxRepo := mocks.NewMockOutboxRepository(ctrl)
	idGen := mocks.NewMockIDGenerator(ctrl)

	today := time.Now().UTC()
	stay, _ := domain.NewStay(today, 2, today)
	booking, _ := domain.NewBooking(domain.NewBookingParams{
		ID: "b1", CustomerID: "c1", RoomType: domain.RoomTypeStandard, RoomQuantity: 1, Stay: stay, TotalAmount: domain.Euros(100),
	}, today)
	wallet, _ := domain.NewWallet("w1", "c1", today)
	_, _ = wallet.Credit(domain.Euros(80), "seed", nil)

	saveErr := errors.New("disk full")

	txManager.EXPECT().Begin(gomock.Any()).Return(tx, nil)
	tx.EXPECT().Rollback(gomock.Any()).Return(nil)
	bookingRepo.EXPECT().GetByIDForUpdate(gomock.Any(), tx, "b1").Return(booking, nil)
	walletRepo.EXPECT().GetByCustomerIDForUpdate(gomock.Any(), tx, "c1").Return(wallet, nil)
	walletRepo.EXPECT().Save(gomock.Any(), tx, gomock.Any()).Return(saveErr)

	uc := usecase.NewBookingUseCase(txManager, customerRepo, walletRepo, bookingRepo, outboxRepo, nil, idGen, nil, nil, zerolog.Nop())

	_, err := uc.PayDeposit(context.Background(), "b1")
	assert.ErrorIs(t, err, saveErr)
}

func TestBookingUseCase_PayRetriesConcurrentModification(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	txManager := mocks.NewMockTransactionManager(ctrl)
	bookingRepo := mocks.NewMockBookingRepository(ctrl)
	retrier := mocks.NewMockRetrier(ctrl)

	conflict := domain.ErrConcurrentModification
	attempts := 0
	retrier.EXPECT().Retry(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, op func() error) error {
		for {
			attempts++
			err := op()
			if err == nil || !errors.Is(err, conflict) || attempts == 3 {
				return err
			}
		}
	})
	txManager.EXPECT().Begin(gomock.Any()).Return(nil, conflict).Times(3)

	uc := usecase.NewBookingUseCase(txManager, nil, nil, bookingRepo, nil, nil, nil, retrier, nil, zerolog.Nop())

	_, err := uc.PayBalance(context.Background(), "b1")
	assert.ErrorIs(t, err, conflict)
	assert.Equal(t, 3, attempts)
}

func TestBookingUseCase_ForeignCreditThenPay(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	customer := env.createCustomer(t, "usd@example.com")
	rate := decimal.RequireFromString("0.5")
	_, err := env.wallets.CreditWallet(ctx, usecase.CreditWalletInput{
		CustomerID:   customer.ID,
		Amount:       decimal.NewFromInt(200),
		Currency:     "USD",
		ExchangeRate: &rate,
		Reason:       "Dollar top up",
	})
	require.NoError(t, err)

	booking := env.book(t, customer.ID, "STANDARD", 1, 2)
	res, err := env.bookings.PayDeposit(ctx, booking.ID)
	require.NoError(t, err)
	assert.True(t, res.Wallet.Balance().Equal(domain.Euros(50)))
}
