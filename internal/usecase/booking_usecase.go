package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/gohotel/internal/domain"
	"github.com/iho/gohotel/internal/infrastructure/metrics"
)

// BookingUseCase handles bookings and their two-installment payment.
type BookingUseCase struct {
	txManager    TransactionManager
	customerRepo CustomerRepository
	walletRepo   WalletRepository
	bookingRepo  BookingRepository
	journal      journal
	idGen        IDGenerator
	retrier      Retrier
	metrics      *metrics.Metrics
	logger       zerolog.Logger
	now          func() time.Time
}

// NewBookingUseCase creates a new BookingUseCase.
func NewBookingUseCase(
	txManager TransactionManager,
	customerRepo CustomerRepository,
	walletRepo WalletRepository,
	bookingRepo BookingRepository,
	outboxRepo OutboxRepository,
	auditRepo AuditRepository,
	idGen IDGenerator,
	retrier Retrier,
	metrics *metrics.Metrics,
	logger zerolog.Logger,
) *BookingUseCase {
	return &BookingUseCase{
		txManager:    txManager,
		customerRepo: customerRepo,
		walletRepo:   walletRepo,
		bookingRepo:  bookingRepo,
		journal:      journal{outboxRepo: outboxRepo, auditRepo: auditRepo, idGen: idGen},
		idGen:        idGen,
		retrier:      retrier,
		metrics:      metrics,
		logger:       logger.With().Str("component", "booking_usecase").Logger(),
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// CreateBookingInput represents input for booking rooms.
type CreateBookingInput struct {
	CustomerID   string
	RoomType     string
	RoomQuantity int
	CheckIn      time.Time
	Nights       int
}

// CreateBooking prices and stores a PENDING booking for an active customer.
func (uc *BookingUseCase) CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, error) {
	roomType, err := domain.ParseRoomType(input.RoomType)
	if err != nil {
		return nil, err
	}
	stay, err := domain.NewStay(input.CheckIn, input.Nights, uc.now())
	if err != nil {
		return nil, err
	}
	total, err := domain.PriceStay(roomType, input.RoomQuantity, stay)
	if err != nil {
		return nil, err
	}

	customer, err := uc.customerRepo.GetByID(ctx, input.CustomerID)
	if err != nil {
		return nil, err
	}
	if !customer.IsActive() {
		return nil, domain.ErrCustomerInactive
	}

	booking, err := domain.NewBooking(domain.NewBookingParams{
		ID:           uc.idGen.Generate(),
		CustomerID:   customer.ID,
		RoomType:     roomType,
		RoomQuantity: input.RoomQuantity,
		Stay:         stay,
		TotalAmount:  total,
	}, uc.now())
	if err != nil {
		return nil, err
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	if err := uc.bookingRepo.Create(txCtx, tx, booking); err != nil {
		return nil, err
	}

	if err := uc.journal.record(txCtx, tx, journalEntry{
		aggregateType: domain.AggregateTypeBooking,
		aggregateID:   booking.ID,
		eventType:     domain.EventTypeBookingCreated,
		payload: domain.BookingCreatedEvent{
			BookingID:    booking.ID,
			CustomerID:   booking.CustomerID,
			RoomType:     string(booking.RoomType),
			RoomQuantity: booking.RoomQuantity,
			CheckIn:      booking.Stay.CheckIn().Format(time.DateOnly),
			Nights:       booking.Stay.Nights(),
			Total:        booking.TotalAmount.Amount().String(),
		},
		action: domain.AuditActionBookingCreate,
		after:  domain.BookingSnapshot(booking),
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.BookingsCreated.Inc()
	}
	uc.logger.Info().
		Str("booking_id", booking.ID).
		Str("customer_id", booking.CustomerID).
		Str("total", booking.TotalAmount.String()).
		Msg("booking created")

	return booking, nil
}

// GetBooking retrieves a booking by ID.
func (uc *BookingUseCase) GetBooking(ctx context.Context, id string) (*domain.Booking, error) {
	return uc.bookingRepo.GetByID(ctx, id)
}

// ListBookingEventsInput represents input for listing a booking's events.
type ListBookingEventsInput struct {
	BookingID string
	Limit     int
	Offset    int
}

// ListBookingEvents lists the outbox events recorded for a booking, oldest first.
func (uc *BookingUseCase) ListBookingEvents(ctx context.Context, input ListBookingEventsInput) ([]*domain.OutboxEvent, error) {
	if _, err := uc.bookingRepo.GetByID(ctx, input.BookingID); err != nil {
		return nil, err
	}

	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)
	return uc.journal.outboxRepo.GetByAggregate(ctx, domain.AggregateTypeBooking, input.BookingID, limit, offset)
}

// ListBookingsInput represents input for listing bookings.
type ListBookingsInput struct {
	CustomerID string
	Status     string
	Limit      int
	Offset     int
}

// ListBookings lists bookings, optionally narrowed to a customer or a status.
func (uc *BookingUseCase) ListBookings(ctx context.Context, input ListBookingsInput) ([]*domain.Booking, error) {
	filter := BookingFilter{CustomerID: input.CustomerID}
	if input.Status != "" {
		switch status := domain.BookingStatus(input.Status); status {
		case domain.BookingStatusPending, domain.BookingStatusConfirmed, domain.BookingStatusCancelled:
			filter.Status = status
		default:
			return nil, fmt.Errorf("%w: unknown booking status %q", domain.ErrValidation, input.Status)
		}
	}

	if input.CustomerID != "" {
		if _, err := uc.customerRepo.GetByID(ctx, input.CustomerID); err != nil {
			return nil, err
		}
	}

	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)
	return uc.bookingRepo.List(ctx, filter, limit, offset)
}

// PaymentResult is the outcome of a successful installment.
type PaymentResult struct {
	Booking     *domain.Booking
	Payment     *domain.Payment
	Transaction *domain.Transaction
	Wallet      *domain.Wallet
}

// PayDeposit debits the deposit from the customer's wallet and records it.
func (uc *BookingUseCase) PayDeposit(ctx context.Context, bookingID string) (*PaymentResult, error) {
	return uc.pay(ctx, bookingID, domain.PaymentTypeDeposit)
}

// PayBalance debits the balance from the customer's wallet and confirms the booking.
func (uc *BookingUseCase) PayBalance(ctx context.Context, bookingID string) (*PaymentResult, error) {
	return uc.pay(ctx, bookingID, domain.PaymentTypeBalance)
}

func (uc *BookingUseCase) pay(ctx context.Context, bookingID string, paymentType domain.PaymentType) (*PaymentResult, error) {
	start := time.Now()

	var result *PaymentResult
	err := retry(ctx, uc.retrier, func() error {
		var err error
		result, err = uc.payOnce(ctx, bookingID, paymentType)
		return err
	})
	if err != nil {
		if uc.metrics != nil {
			uc.metrics.PaymentErrors.WithLabelValues(string(paymentType), errorType(err)).Inc()
		}
		uc.logger.Warn().Err(err).
			Str("booking_id", bookingID).
			Str("payment_type", string(paymentType)).
			Msg("booking payment rejected")
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.WalletDebits.Inc()
		uc.metrics.PaymentsProcessed.WithLabelValues(string(paymentType)).Inc()
		uc.metrics.PaymentDuration.Observe(time.Since(start).Seconds())
		if result.Booking.Status() == domain.BookingStatusConfirmed {
			uc.metrics.BookingsConfirmed.Inc()
		}
	}
	uc.logger.Info().
		Str("booking_id", bookingID).
		Str("payment_type", string(paymentType)).
		Str("amount", result.Payment.Amount.String()).
		Str("status", string(result.Booking.Status())).
		Str("wallet_balance", result.Wallet.Balance().String()).
		Msg("booking payment processed")

	return result, nil
}

// payOnce runs debit-then-record in one transaction, so a payment never exists
// without its debit and a debit is never committed without its payment.
func (uc *BookingUseCase) payOnce(ctx context.Context, bookingID string, paymentType domain.PaymentType) (*PaymentResult, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	booking, err := uc.bookingRepo.GetByIDForUpdate(txCtx, tx, bookingID)
	if err != nil {
		return nil, err
	}
	before := domain.BookingSnapshot(booking)

	// Reject out-of-order installments before touching the wallet.
	expected, amount, err := booking.NextInstallment()
	if err != nil {
		return nil, err
	}
	if expected != paymentType {
		if paymentType == domain.PaymentTypeDeposit {
			return nil, domain.ErrDepositAlreadyPaid
		}
		return nil, domain.ErrDepositRequired
	}

	wallet, err := ensureWallet(txCtx, tx, uc.walletRepo, uc.idGen, booking.CustomerID)
	if err != nil {
		return nil, err
	}

	reason := ReasonDepositPayment
	if paymentType == domain.PaymentTypeBalance {
		reason = ReasonBalancePayment
	}
	debit, err := wallet.Debit(amount, fmt.Sprintf("%s %s", reason, booking.ID))
	if err != nil {
		return nil, err
	}

	var payment *domain.Payment
	if paymentType == domain.PaymentTypeDeposit {
		payment, err = booking.PayDeposit()
	} else {
		payment, err = booking.ConfirmBooking()
	}
	if err != nil {
		return nil, err
	}

	if err := uc.walletRepo.Save(txCtx, tx, wallet); err != nil {
		return nil, err
	}
	wallet.Version++

	if err := uc.bookingRepo.Save(txCtx, tx, booking); err != nil {
		return nil, err
	}
	booking.Version++

	eventType, action := domain.EventTypeDepositPaid, domain.AuditActionBookingPayDeposit
	if paymentType == domain.PaymentTypeBalance {
		eventType, action = domain.EventTypeBookingConfirmed, domain.AuditActionBookingPayBalance
	}
	if err := uc.journal.record(txCtx, tx, journalEntry{
		aggregateType: domain.AggregateTypeBooking,
		aggregateID:   booking.ID,
		eventType:     eventType,
		payload: domain.BookingPaymentEvent{
			BookingID:     booking.ID,
			CustomerID:    booking.CustomerID,
			PaymentID:     payment.ID,
			TransactionID: debit.ID,
			PaymentType:   string(payment.Type),
			Amount:        payment.Amount.Amount().String(),
			Status:        string(booking.Status()),
		},
		action: action,
		before: before,
		after:  domain.BookingSnapshot(booking),
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	return &PaymentResult{Booking: booking, Payment: payment, Transaction: debit, Wallet: wallet}, nil
}

// CancelBooking cancels a booking. Payments already made are not refunded.
func (uc *BookingUseCase) CancelBooking(ctx context.Context, id string) (*domain.Booking, error) {
	var booking *domain.Booking
	err := retry(ctx, uc.retrier, func() error {
		txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
		defer cancel()

		tx, err := uc.txManager.Begin(txCtx)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback(txCtx) }()

		booking, err = uc.bookingRepo.GetByIDForUpdate(txCtx, tx, id)
		if err != nil {
			return err
		}
		before := domain.BookingSnapshot(booking)
		previous := booking.Status()

		if err := booking.Cancel(); err != nil {
			return err
		}

		if err := uc.bookingRepo.Save(txCtx, tx, booking); err != nil {
			return err
		}
		booking.Version++

		if err := uc.journal.record(txCtx, tx, journalEntry{
			aggregateType: domain.AggregateTypeBooking,
			aggregateID:   booking.ID,
			eventType:     domain.EventTypeBookingCancelled,
			payload: domain.BookingCancelledEvent{
				BookingID:      booking.ID,
				CustomerID:     booking.CustomerID,
				PreviousStatus: string(previous),
				TotalPaid:      booking.TotalPaid().Amount().String(),
			},
			action: domain.AuditActionBookingCancel,
			before: before,
			after:  domain.BookingSnapshot(booking),
		}); err != nil {
			return err
		}

		return tx.Commit(txCtx)
	})
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.BookingsCancelled.Inc()
	}
	uc.logger.Info().Str("booking_id", booking.ID).Msg("booking cancelled")

	return booking, nil
}

func errorType(err error) string {
	switch {
	case errors.Is(err, domain.ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, domain.ErrDepositRequired):
		return "deposit_required"
	case errors.Is(err, domain.ErrInvalidState):
		return "invalid_state"
	case errors.Is(err, domain.ErrBookingNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrConcurrentModification):
		return "conflict"
	default:
		return "internal"
	}
}
