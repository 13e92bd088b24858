package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/iho/gohotel/internal/adapter/http/dto"
	"github.com/iho/gohotel/internal/domain"
	"github.com/iho/gohotel/internal/usecase"
)

type bookingServiceStub struct {
	createFn     func(ctx context.Context, input usecase.CreateBookingInput) (*domain.Booking, error)
	getFn        func(ctx context.Context, id string) (*domain.Booking, error)
	listFn       func(ctx context.Context, input usecase.ListBookingsInput) ([]*domain.Booking, error)
	payDepositFn func(ctx context.Context, id string) (*usecase.PaymentResult, error)
	payBalanceFn func(ctx context.Context, id string) (*usecase.PaymentResult, error)
	cancelFn     func(ctx context.Context, id string) (*domain.Booking, error)
	eventsFn     func(ctx context.Context, input usecase.ListBookingEventsInput) ([]*domain.OutboxEvent, error)
}

func (s *bookingServiceStub) CreateBooking(ctx context.Context, input usecase.CreateBookingInput) (*domain.Booking, error) {
	return s.createFn(ctx, input)
}

func (s *bookingServiceStub) GetBooking(ctx context.Context, id string) (*domain.Booking, error) {
	return s.getFn(ctx, id)
}

func (s *bookingServiceStub) ListBookings(ctx context.Context, input usecase.ListBookingsInput) ([]*domain.Booking, error) {
	return s.listFn(ctx, input)
}

func (s *bookingServiceStub) PayDeposit(ctx context.Context, id string) (*usecase.PaymentResult, error) {
	return s.payDepositFn(ctx, id)
}

func (s *bookingServiceStub) PayBalance(ctx context.Context, id string) (*usecase.PaymentResult, error) {
	return s.payBalanceFn(ctx, id)
}

func (s *bookingServiceStub) CancelBooking(ctx context.Context, id string) (*domain.Booking, error) {
	return s.cancelFn(ctx, id)
}

func (s *bookingServiceStub) ListBookingEvents(ctx context.Context, input usecase.ListBookingEventsInput) ([]*domain.OutboxEvent, error) {
	return s.eventsFn(ctx, input)
}

func sampleBooking(t *testing.T) *domain.Booking {
	t.Helper()
	today := time.Now().UTC()
	stay, err := domain.NewStay(today.AddDate(0, 0, 7), 2, today)
	if err != nil {
		t.Fatalf("NewStay: %v", err)
	}
	b, err := domain.NewBooking(domain.NewBookingParams{
		ID:           "bkg-1",
		CustomerID:   "cust-1",
		RoomType:     domain.RoomTypeStandard,
		RoomQuantity: 1,
		Stay:         stay,
		TotalAmount:  domain.Euros(100),
	}, today)
	if err != nil {
		t.Fatalf("NewBooking: %v", err)
	}
	return b
}

func TestBookingHandler_Create(t *testing.T) {
	var captured usecase.CreateBookingInput
	h := NewBookingHandler(&bookingServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateBookingInput) (*domain.Booking, error) {
			captured = input
			return sampleBooking(t), nil
		},
	})

	body := `{"customer_id":"cust-1","room_type":"STANDARD","room_quantity":1,"check_in":"2031-05-01","nights":2}`
	rec := httptest.NewRecorder()
	h.Create(rec, httptest.NewRequest(http.MethodPost, "/bookings", strings.NewReader(body)))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if captured.CustomerID != "cust-1" || captured.Nights != 2 || captured.CheckIn.Format(dto.DateLayout) != "2031-05-01" {
		t.Fatalf("unexpected input: %+v", captured)
	}

	var resp dto.BookingResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Status != "PENDING" || resp.Deposit.Amount.String() != "50" {
		t.Fatalf("unexpected booking response: %+v", resp)
	}
}

func TestBookingHandler_CreateRejectsBadDate(t *testing.T) {
	h := NewBookingHandler(&bookingServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateBookingInput) (*domain.Booking, error) {
			t.Fatal("use case must not be called")
			return nil, nil
		},
	})

	rec := httptest.NewRecorder()
	h.Create(rec, httptest.NewRequest(http.MethodPost, "/bookings", strings.NewReader(`{"check_in":"01/05/2031"}`)))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestBookingHandler_PayDeposit(t *testing.T) {
	booking := sampleBooking(t)
	wallet, _ := domain.NewWallet("wal-1", "cust-1", time.Now().UTC())
	_, _ = wallet.Credit(domain.Euros(80), "Top up", nil)
	debit, _ := wallet.Debit(domain.Euros(50), "Deposit")
	payment, _ := booking.PayDeposit()

	h := NewBookingHandler(&bookingServiceStub{
		payDepositFn: func(ctx context.Context, id string) (*usecase.PaymentResult, error) {
			if id != "bkg-1" {
				t.Fatalf("unexpected id %q", id)
			}
			return &usecase.PaymentResult{Booking: booking, Payment: payment, Transaction: debit, Wallet: wallet}, nil
		},
	})

	rec := httptest.NewRecorder()
	h.PayDeposit(rec, withURLParams(httptest.NewRequest(http.MethodPost, "/bookings/bkg-1/pay-deposit", nil), map[string]string{"id": "bkg-1"}))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.PaymentResultResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Wallet.Balance.Amount.String() != "30" || resp.Payment.Type != "DEPOSIT" || resp.Transaction.Type != "DEBIT" {
		t.Fatalf("unexpected payment response: %+v", resp)
	}
}

func TestBookingHandler_PaymentErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"insufficient funds", &domain.InsufficientFundsError{Balance: domain.Euros(10), Required: domain.Euros(50)}, http.StatusPaymentRequired},
		{"deposit required", domain.ErrDepositRequired, http.StatusConflict},
		{"not found", domain.ErrBookingNotFound, http.StatusNotFound},
		{"suspended", domain.ErrCustomerInactive, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewBookingHandler(&bookingServiceStub{
				payBalanceFn: func(ctx context.Context, id string) (*usecase.PaymentResult, error) {
					return nil, tt.err
				},
			})

			rec := httptest.NewRecorder()
			h.PayBalance(rec, withURLParams(httptest.NewRequest(http.MethodPost, "/bookings/bkg-1/pay-balance", nil), map[string]string{"id": "bkg-1"}))

			if rec.Code != tt.expected {
				t.Fatalf("expected %d, got %d: %s", tt.expected, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestBookingHandler_ListFilters(t *testing.T) {
	var captured []usecase.ListBookingsInput
	h := NewBookingHandler(&bookingServiceStub{
		listFn: func(ctx context.Context, input usecase.ListBookingsInput) ([]*domain.Booking, error) {
			captured = append(captured, input)
			return []*domain.Booking{sampleBooking(t)}, nil
		},
	})

	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/bookings?customer_id=cust-9&status=PENDING&limit=3", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.ListByCustomer(rec, withURLParams(httptest.NewRequest(http.MethodGet, "/customers/cust-2/bookings", nil), map[string]string{"id": "cust-2"}))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	if captured[0].CustomerID != "cust-9" || captured[0].Status != "PENDING" || captured[0].Limit != 3 {
		t.Fatalf("unexpected list input: %+v", captured[0])
	}
	if captured[1].CustomerID != "cust-2" {
		t.Fatalf("expected customer from URL, got %+v", captured[1])
	}
}

func TestBookingHandler_Cancel(t *testing.T) {
	h := NewBookingHandler(&bookingServiceStub{
		cancelFn: func(ctx context.Context, id string) (*domain.Booking, error) {
			return nil, domain.ErrAlreadyCancelled
		},
	})

	rec := httptest.NewRecorder()
	h.Cancel(rec, withURLParams(httptest.NewRequest(http.MethodPost, "/bookings/bkg-1/cancel", nil), map[string]string{"id": "bkg-1"}))

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestBookingHandler_Events(t *testing.T) {
	var captured usecase.ListBookingEventsInput
	h := NewBookingHandler(&bookingServiceStub{
		eventsFn: func(ctx context.Context, input usecase.ListBookingEventsInput) ([]*domain.OutboxEvent, error) {
			captured = input
			if input.BookingID == "missing" {
				return nil, domain.ErrBookingNotFound
			}
			return []*domain.OutboxEvent{{
				ID:            "evt-1",
				AggregateType: domain.AggregateTypeBooking,
				AggregateID:   input.BookingID,
				EventType:     domain.EventTypeBookingCreated,
				Payload:       map[string]any{"booking_id": input.BookingID},
				CreatedAt:     time.Now().UTC(),
			}}, nil
		},
	})

	rec := httptest.NewRecorder()
	h.Events(rec, withURLParams(httptest.NewRequest(http.MethodGet, "/bookings/bkg-1/events?limit=5&offset=1", nil), map[string]string{"id": "bkg-1"}))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if captured.BookingID != "bkg-1" || captured.Limit != 5 || captured.Offset != 1 {
		t.Fatalf("unexpected input: %+v", captured)
	}

	var resp []dto.OutboxEventResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp) != 1 || resp[0].EventType != domain.EventTypeBookingCreated || resp[0].PublishedAt != nil {
		t.Fatalf("unexpected events: %+v", resp)
	}

	rec = httptest.NewRecorder()
	h.Events(rec, withURLParams(httptest.NewRequest(http.MethodGet, "/bookings/missing/events", nil), map[string]string{"id": "missing"}))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
