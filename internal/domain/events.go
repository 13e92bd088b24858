package domain

import "time"

// Event types
const (
	EventTypeCustomerCreated     = "customer.created"
	EventTypeCustomerUpdated     = "customer.updated"
	EventTypeCustomerSuspended   = "customer.suspended"
	EventTypeCustomerReactivated = "customer.reactivated"
	EventTypeWalletCredited      = "wallet.credited"
	EventTypeBookingCreated      = "booking.created"
	EventTypeDepositPaid         = "booking.deposit_paid"
	EventTypeBookingConfirmed    = "booking.confirmed"
	EventTypeBookingCancelled    = "booking.cancelled"
)

// Aggregate types
const (
	AggregateTypeCustomer = "customer"
	AggregateTypeWallet   = "wallet"
	AggregateTypeBooking  = "booking"
)

// OutboxEvent represents an event to be published
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}

// CustomerEvent payload
type CustomerEvent struct {
	CustomerID string `json:"customer_id"`
	Email      string `json:"email"`
	Status     string `json:"status"`
}

// WalletCreditedEvent payload
type WalletCreditedEvent struct {
	WalletID      string `json:"wallet_id"`
	CustomerID    string `json:"customer_id"`
	TransactionID string `json:"transaction_id"`
	Amount        string `json:"amount"`
	Currency      string `json:"currency"`
	Balance       string `json:"balance"`
}

// BookingCreatedEvent payload
type BookingCreatedEvent struct {
	BookingID    string `json:"booking_id"`
	CustomerID   string `json:"customer_id"`
	RoomType     string `json:"room_type"`
	RoomQuantity int    `json:"room_quantity"`
	CheckIn      string `json:"check_in"`
	Nights       int    `json:"nights"`
	Total        string `json:"total"`
}

// BookingPaymentEvent payload, emitted for the deposit and the balance.
type BookingPaymentEvent struct {
	BookingID     string `json:"booking_id"`
	CustomerID    string `json:"customer_id"`
	PaymentID     string `json:"payment_id"`
	TransactionID string `json:"transaction_id"`
	PaymentType   string `json:"payment_type"`
	Amount        string `json:"amount"`
	Status        string `json:"status"`
}

// BookingCancelledEvent payload
type BookingCancelledEvent struct {
	BookingID      string `json:"booking_id"`
	CustomerID     string `json:"customer_id"`
	PreviousStatus string `json:"previous_status"`
	TotalPaid      string `json:"total_paid"`
}

// NewOutboxEvent builds an unpublished event.
func NewOutboxEvent(id, aggregateType, aggregateID, eventType string, payload any) *OutboxEvent {
	return &OutboxEvent{
		ID:            id,
		AggregateID:   aggregateID,
		AggregateType: aggregateType,
		EventType:     eventType,
		Payload:       MarshalState(payload),
		CreatedAt:     time.Now().UTC(),
	}
}
