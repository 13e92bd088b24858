package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/gohotel/internal/adapter/http/dto"
	"github.com/iho/gohotel/internal/domain"
	"github.com/iho/gohotel/internal/usecase"
)

// BookingService defines the behavior needed by BookingHandler.
type BookingService interface {
	CreateBooking(ctx context.Context, input usecase.CreateBookingInput) (*domain.Booking, error)
	GetBooking(ctx context.Context, id string) (*domain.Booking, error)
	ListBookings(ctx context.Context, input usecase.ListBookingsInput) ([]*domain.Booking, error)
	PayDeposit(ctx context.Context, bookingID string) (*usecase.PaymentResult, error)
	PayBalance(ctx context.Context, bookingID string) (*usecase.PaymentResult, error)
	CancelBooking(ctx context.Context, id string) (*domain.Booking, error)
	ListBookingEvents(ctx context.Context, input usecase.ListBookingEventsInput) ([]*domain.OutboxEvent, error)
}

// BookingHandler handles booking-related HTTP requests.
type BookingHandler struct {
	bookingUC BookingService
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(bookingUC BookingService) *BookingHandler {
	return &BookingHandler{bookingUC: bookingUC}
}

// Create books rooms for a customer.
func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateBookingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid check-in date", err.Error())
		return
	}

	booking, err := h.bookingUC.CreateBooking(r.Context(), input)
	if err != nil {
		writeDomainError(w, err, "failed to create booking")
		return
	}

	writeJSON(w, http.StatusCreated, dto.BookingFromDomain(booking))
}

// Get retrieves a booking by ID.
func (h *BookingHandler) Get(w http.ResponseWriter, r *http.Request) {
	booking, err := h.bookingUC.GetBooking(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err, "failed to get booking")
		return
	}

	writeJSON(w, http.StatusOK, dto.BookingFromDomain(booking))
}

// List lists bookings, filtered by the customer_id and status query parameters.
func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, r.URL.Query().Get("customer_id"))
}

// ListByCustomer lists one customer's bookings.
func (h *BookingHandler) ListByCustomer(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, chi.URLParam(r, "id"))
}

func (h *BookingHandler) list(w http.ResponseWriter, r *http.Request, customerID string) {
	bookings, err := h.bookingUC.ListBookings(r.Context(), usecase.ListBookingsInput{
		CustomerID: customerID,
		Status:     r.URL.Query().Get("status"),
		Limit:      parseIntQuery(r, "limit", 20),
		Offset:     parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeDomainError(w, err, "failed to list bookings")
		return
	}

	writeJSON(w, http.StatusOK, dto.BookingsFromDomain(bookings))
}

// Events lists the events recorded for a booking.
func (h *BookingHandler) Events(w http.ResponseWriter, r *http.Request) {
	events, err := h.bookingUC.ListBookingEvents(r.Context(), usecase.ListBookingEventsInput{
		BookingID: chi.URLParam(r, "id"),
		Limit:     parseIntQuery(r, "limit", 20),
		Offset:    parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeDomainError(w, err, "failed to list booking events")
		return
	}

	writeJSON(w, http.StatusOK, dto.OutboxEventsFromDomain(events))
}

// PayDeposit pays the booking's deposit from the customer's wallet.
func (h *BookingHandler) PayDeposit(w http.ResponseWriter, r *http.Request) {
	result, err := h.bookingUC.PayDeposit(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err, "failed to pay deposit")
		return
	}

	writeJSON(w, http.StatusOK, dto.PaymentResultFromUseCase(result))
}

// PayBalance pays the remaining balance and confirms the booking.
func (h *BookingHandler) PayBalance(w http.ResponseWriter, r *http.Request) {
	result, err := h.bookingUC.PayBalance(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err, "failed to pay balance")
		return
	}

	writeJSON(w, http.StatusOK, dto.PaymentResultFromUseCase(result))
}

// Cancel cancels the booking. Payments are not refunded.
func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	booking, err := h.bookingUC.CancelBooking(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err, "failed to cancel booking")
		return
	}

	writeJSON(w, http.StatusOK, dto.BookingFromDomain(booking))
}
