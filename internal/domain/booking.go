package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
)

// Stay limits.
const (
	MinNights = 1
	MaxNights = 365
)

var installmentRate = decimal.RequireFromString("0.5")

// BookingStatus is the state of a booking's payment flow.
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
)

// PaymentType distinguishes the two installments of a booking.
type PaymentType string

const (
	PaymentTypeDeposit PaymentType = "DEPOSIT"
	PaymentTypeBalance PaymentType = "BALANCE"
)

// Stay is a check-in date and a number of nights.
type Stay struct {
	checkIn time.Time
	nights  int
}

// NewStay validates a stay against today's date.
func NewStay(checkIn time.Time, nights int, today time.Time) (Stay, error) {
	day := dateOf(checkIn)
	if day.Before(dateOf(today)) {
		return Stay{}, fmt.Errorf("%w: check-in date %s is in the past", ErrValidation, day.Format(time.DateOnly))
	}
	if nights < MinNights || nights > MaxNights {
		return Stay{}, fmt.Errorf("%w: nights must be between %d and %d, got %d", ErrValidation, MinNights, MaxNights, nights)
	}
	return Stay{checkIn: day, nights: nights}, nil
}

// CheckIn returns the check-in date at midnight UTC.
func (s Stay) CheckIn() time.Time { return s.checkIn }

// Nights returns the number of nights.
func (s Stay) Nights() int { return s.nights }

// CheckOut returns the departure date.
func (s Stay) CheckOut() time.Time {
	return s.checkIn.AddDate(0, 0, s.nights)
}

// Equal compares stays structurally.
func (s Stay) Equal(other Stay) bool {
	return s.checkIn.Equal(other.checkIn) && s.nights == other.nights
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// PriceStay computes the total of a booking from the room catalog:
// price per night x rooms x nights.
func PriceStay(roomType RoomType, quantity int, stay Stay) (Money, error) {
	if quantity <= 0 {
		return Money{}, fmt.Errorf("%w: room quantity must be positive", ErrValidation)
	}
	price, err := roomType.PricePerNight()
	if err != nil {
		return Money{}, err
	}
	return price.Multiply(decimal.NewFromInt(int64(quantity) * int64(stay.nights)))
}

// Payment is one installment recorded on a booking.
type Payment struct {
	ID          string
	BookingID   string
	Amount      Money
	Type        PaymentType
	IsProcessed bool
	ProcessedAt *time.Time
	CreatedAt   time.Time
}

// SameAs compares payments by identity.
func (p *Payment) SameAs(other *Payment) bool {
	return other != nil && p.ID == other.ID
}

func (p *Payment) process(at time.Time) error {
	if p.IsProcessed {
		return fmt.Errorf("%w: payment %s already processed", ErrInvalidState, p.ID)
	}
	p.IsProcessed = true
	p.ProcessedAt = &at
	return nil
}

// Booking is a reservation paid in a deposit and a balance installment.
type Booking struct {
	ID           string
	CustomerID   string
	RoomType     RoomType
	RoomQuantity int
	Stay         Stay
	TotalAmount  Money
	Version      int64
	CreatedAt    time.Time
	UpdatedAt    time.Time

	status   BookingStatus
	payments []*Payment
}

// NewBookingParams holds the attributes of a new booking.
type NewBookingParams struct {
	ID           string
	CustomerID   string
	RoomType     RoomType
	RoomQuantity int
	Stay         Stay
	TotalAmount  Money
}

// NewBooking creates a PENDING booking.
func NewBooking(p NewBookingParams, now time.Time) (*Booking, error) {
	if strings.TrimSpace(p.ID) == "" {
		return nil, fmt.Errorf("%w: booking id cannot be empty", ErrValidation)
	}
	if strings.TrimSpace(p.CustomerID) == "" {
		return nil, fmt.Errorf("%w: customer id cannot be empty", ErrValidation)
	}
	if _, err := p.RoomType.Info(); err != nil {
		return nil, err
	}
	if p.RoomQuantity <= 0 {
		return nil, fmt.Errorf("%w: room quantity must be positive", ErrValidation)
	}
	if p.Stay.nights == 0 {
		return nil, fmt.Errorf("%w: stay is required", ErrValidation)
	}
	if p.TotalAmount.Currency() != BaseCurrency {
		return nil, fmt.Errorf("%w: total must be in %s", ErrCurrencyMismatch, BaseCurrency)
	}

	return &Booking{
		ID:           p.ID,
		CustomerID:   p.CustomerID,
		RoomType:     p.RoomType,
		RoomQuantity: p.RoomQuantity,
		Stay:         p.Stay,
		TotalAmount:  p.TotalAmount,
		CreatedAt:    now,
		UpdatedAt:    now,
		status:       BookingStatusPending,
	}, nil
}

// RestoreBooking rebuilds a persisted booking. Stay is trusted as stored, so past
// check-in dates are accepted.
func RestoreBooking(p NewBookingParams, checkIn time.Time, nights int, status BookingStatus, payments []*Payment, version int64, createdAt, updatedAt time.Time) (*Booking, error) {
	p.Stay = Stay{checkIn: dateOf(checkIn), nights: nights}
	b, err := NewBooking(p, createdAt)
	if err != nil {
		return nil, err
	}
	switch status {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCancelled:
	default:
		return nil, fmt.Errorf("%w: unknown booking status %q", ErrValidation, status)
	}

	b.status = status
	b.payments = append([]*Payment(nil), payments...)
	b.Version = version
	b.UpdatedAt = updatedAt
	return b, nil
}

// Status returns the booking status.
func (b *Booking) Status() BookingStatus { return b.status }

// Payments returns the recorded payments in order.
func (b *Booking) Payments() []*Payment {
	return append([]*Payment(nil), b.payments...)
}

// DepositAmount is half of the total.
func (b *Booking) DepositAmount() Money {
	return b.installment()
}

// BalanceAmount is what remains of the total after the deposit, so the two
// installments always add up to the total.
func (b *Booking) BalanceAmount() Money {
	m, _ := b.TotalAmount.Subtract(b.installment())
	return m
}

func (b *Booking) installment() Money {
	m, _ := b.TotalAmount.Multiply(installmentRate)
	return m
}

// PayDeposit records the processed deposit. The wallet must already be debited.
func (b *Booking) PayDeposit() (*Payment, error) {
	if b.status != BookingStatusPending {
		return nil, fmt.Errorf("%w: deposit can only be paid on a pending booking, status is %s", ErrInvalidState, b.status)
	}
	if b.HasDeposit() {
		return nil, ErrDepositAlreadyPaid
	}

	payment, err := b.record(PaymentTypeDeposit, b.DepositAmount())
	if err != nil {
		return nil, err
	}
	return payment, nil
}

// ConfirmBooking records the processed balance and confirms the booking.
// The wallet must already be debited.
func (b *Booking) ConfirmBooking() (*Payment, error) {
	if b.status != BookingStatusPending {
		return nil, fmt.Errorf("%w: only a pending booking can be confirmed, status is %s", ErrInvalidState, b.status)
	}
	if !b.HasDeposit() {
		return nil, ErrDepositRequired
	}

	payment, err := b.record(PaymentTypeBalance, b.BalanceAmount())
	if err != nil {
		return nil, err
	}
	b.status = BookingStatusConfirmed
	return payment, nil
}

// Cancel moves the booking to CANCELLED. Payments are not reversed.
func (b *Booking) Cancel() error {
	if b.status == BookingStatusCancelled {
		return ErrAlreadyCancelled
	}
	b.status = BookingStatusCancelled
	b.UpdatedAt = time.Now().UTC()
	return nil
}

// HasDeposit reports whether a processed deposit exists.
func (b *Booking) HasDeposit() bool {
	for _, p := range b.payments {
		if p.Type == PaymentTypeDeposit && p.IsProcessed {
			return true
		}
	}
	return false
}

// NextInstallment returns the type and amount of the payment the booking expects next.
func (b *Booking) NextInstallment() (PaymentType, Money, error) {
	if b.status != BookingStatusPending {
		return "", Money{}, fmt.Errorf("%w: booking is %s", ErrInvalidState, b.status)
	}
	if b.HasDeposit() {
		return PaymentTypeBalance, b.BalanceAmount(), nil
	}
	return PaymentTypeDeposit, b.DepositAmount(), nil
}

// TotalPaid sums processed payments.
func (b *Booking) TotalPaid() Money {
	total := ZeroMoney(BaseCurrency)
	for _, p := range b.payments {
		if !p.IsProcessed {
			continue
		}
		if sum, err := total.Add(p.Amount); err == nil {
			total = sum
		}
	}
	return total
}

// RemainingDue is the part of the total not paid yet.
func (b *Booking) RemainingDue() Money {
	due, err := b.TotalAmount.Subtract(b.TotalPaid())
	if err != nil {
		return ZeroMoney(BaseCurrency)
	}
	return due
}

// SameAs compares bookings by identity.
func (b *Booking) SameAs(other *Booking) bool {
	return other != nil && b.ID == other.ID
}

// Clone returns a deep copy of the booking.
func (b *Booking) Clone() *Booking {
	c := *b
	c.payments = make([]*Payment, len(b.payments))
	for i, p := range b.payments {
		cp := *p
		c.payments[i] = &cp
	}
	return &c
}

func (b *Booking) record(typ PaymentType, amount Money) (*Payment, error) {
	now := time.Now().UTC()
	payment := &Payment{
		ID:        ulid.Make().String(),
		BookingID: b.ID,
		Amount:    amount,
		Type:      typ,
		CreatedAt: now,
	}
	if err := payment.process(now); err != nil {
		return nil, err
	}

	b.payments = append(b.payments, payment)
	b.UpdatedAt = now
	return payment, nil
}
