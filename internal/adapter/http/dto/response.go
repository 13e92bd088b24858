package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gohotel/internal/domain"
	"github.com/iho/gohotel/internal/usecase"
)

// MoneyResponse represents an amount in a currency.
type MoneyResponse struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

// MoneyFromDomain converts domain money to response.
func MoneyFromDomain(m domain.Money) MoneyResponse {
	return MoneyResponse{Amount: m.Amount(), Currency: string(m.Currency())}
}

// CustomerResponse represents a customer in API responses.
type CustomerResponse struct {
	ID        string    `json:"id"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CustomerFromDomain converts domain customer to response.
func CustomerFromDomain(c *domain.Customer) *CustomerResponse {
	return &CustomerResponse{
		ID:        c.ID,
		FullName:  c.FullName,
		Email:     c.Email,
		Phone:     c.Phone,
		Status:    string(c.Status),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// ListCustomersResponse is a page of customers.
type ListCustomersResponse struct {
	Customers []*CustomerResponse `json:"customers"`
	Total     int64               `json:"total"`
}

// CustomersFromDomain converts domain customers to responses.
func CustomersFromDomain(customers []*domain.Customer) []*CustomerResponse {
	result := make([]*CustomerResponse, len(customers))
	for i, c := range customers {
		result[i] = CustomerFromDomain(c)
	}
	return result
}

// WalletResponse represents a wallet in API responses.
type WalletResponse struct {
	ID         string        `json:"id"`
	CustomerID string        `json:"customer_id"`
	Balance    MoneyResponse `json:"balance"`
	Version    int64         `json:"version"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

// WalletFromDomain converts domain wallet to response.
func WalletFromDomain(w *domain.Wallet) *WalletResponse {
	return &WalletResponse{
		ID:         w.ID,
		CustomerID: w.CustomerID,
		Balance:    MoneyFromDomain(w.Balance()),
		Version:    w.Version,
		CreatedAt:  w.CreatedAt,
		UpdatedAt:  w.UpdatedAt,
	}
}

// TransactionResponse represents a wallet transaction in API responses.
type TransactionResponse struct {
	ID          string        `json:"id"`
	WalletID    string        `json:"wallet_id"`
	Type        string        `json:"type"`
	Amount      MoneyResponse `json:"amount"`
	Reason      string        `json:"reason"`
	CreatedAt   time.Time     `json:"created_at"`
	ProcessedAt *time.Time    `json:"processed_at,omitempty"`
}

// TransactionFromDomain converts a domain transaction to response.
func TransactionFromDomain(t *domain.Transaction) *TransactionResponse {
	return &TransactionResponse{
		ID:          t.ID,
		WalletID:    t.WalletID,
		Type:        string(t.Type),
		Amount:      MoneyFromDomain(t.Amount),
		Reason:      t.Reason,
		CreatedAt:   t.CreatedAt,
		ProcessedAt: t.ProcessedAt,
	}
}

// TransactionsFromDomain converts domain transactions to responses.
func TransactionsFromDomain(txs []*domain.Transaction) []*TransactionResponse {
	result := make([]*TransactionResponse, len(txs))
	for i, t := range txs {
		result[i] = TransactionFromDomain(t)
	}
	return result
}

// CreditResponse is the wallet after a credit and the transaction that produced it.
type CreditResponse struct {
	Wallet      *WalletResponse      `json:"wallet"`
	Transaction *TransactionResponse `json:"transaction"`
}

// CreditFromUseCase converts a credit result to response.
func CreditFromUseCase(r *usecase.CreditResult) *CreditResponse {
	return &CreditResponse{
		Wallet:      WalletFromDomain(r.Wallet),
		Transaction: TransactionFromDomain(r.Transaction),
	}
}

// PaymentResponse represents a booking payment in API responses.
type PaymentResponse struct {
	ID          string        `json:"id"`
	Type        string        `json:"type"`
	Amount      MoneyResponse `json:"amount"`
	IsProcessed bool          `json:"is_processed"`
	ProcessedAt *time.Time    `json:"processed_at,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
}

// PaymentFromDomain converts a domain payment to response.
func PaymentFromDomain(p *domain.Payment) *PaymentResponse {
	return &PaymentResponse{
		ID:          p.ID,
		Type:        string(p.Type),
		Amount:      MoneyFromDomain(p.Amount),
		IsProcessed: p.IsProcessed,
		ProcessedAt: p.ProcessedAt,
		CreatedAt:   p.CreatedAt,
	}
}

// BookingResponse represents a booking in API responses.
type BookingResponse struct {
	ID           string             `json:"id"`
	CustomerID   string             `json:"customer_id"`
	RoomType     string             `json:"room_type"`
	RoomQuantity int                `json:"room_quantity"`
	CheckIn      string             `json:"check_in"`
	CheckOut     string             `json:"check_out"`
	Nights       int                `json:"nights"`
	Status       string             `json:"status"`
	TotalAmount  MoneyResponse      `json:"total_amount"`
	Deposit      MoneyResponse      `json:"deposit_amount"`
	TotalPaid    MoneyResponse      `json:"total_paid"`
	RemainingDue MoneyResponse      `json:"remaining_due"`
	Payments     []*PaymentResponse `json:"payments"`
	Version      int64              `json:"version"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

// BookingFromDomain converts a domain booking to response.
func BookingFromDomain(b *domain.Booking) *BookingResponse {
	payments := b.Payments()
	resp := &BookingResponse{
		ID:           b.ID,
		CustomerID:   b.CustomerID,
		RoomType:     string(b.RoomType),
		RoomQuantity: b.RoomQuantity,
		CheckIn:      b.Stay.CheckIn().Format(DateLayout),
		CheckOut:     b.Stay.CheckOut().Format(DateLayout),
		Nights:       b.Stay.Nights(),
		Status:       string(b.Status()),
		TotalAmount:  MoneyFromDomain(b.TotalAmount),
		Deposit:      MoneyFromDomain(b.DepositAmount()),
		TotalPaid:    MoneyFromDomain(b.TotalPaid()),
		RemainingDue: MoneyFromDomain(b.RemainingDue()),
		Payments:     make([]*PaymentResponse, len(payments)),
		Version:      b.Version,
		CreatedAt:    b.CreatedAt,
		UpdatedAt:    b.UpdatedAt,
	}
	for i, p := range payments {
		resp.Payments[i] = PaymentFromDomain(p)
	}
	return resp
}

// BookingsFromDomain converts domain bookings to responses.
func BookingsFromDomain(bookings []*domain.Booking) []*BookingResponse {
	result := make([]*BookingResponse, len(bookings))
	for i, b := range bookings {
		result[i] = BookingFromDomain(b)
	}
	return result
}

// PaymentResultResponse is the outcome of a deposit or balance payment.
type PaymentResultResponse struct {
	Booking     *BookingResponse     `json:"booking"`
	Payment     *PaymentResponse     `json:"payment"`
	Transaction *TransactionResponse `json:"transaction"`
	Wallet      *WalletResponse      `json:"wallet"`
}

// PaymentResultFromUseCase converts a payment result to response.
func PaymentResultFromUseCase(r *usecase.PaymentResult) *PaymentResultResponse {
	return &PaymentResultResponse{
		Booking:     BookingFromDomain(r.Booking),
		Payment:     PaymentFromDomain(r.Payment),
		Transaction: TransactionFromDomain(r.Transaction),
		Wallet:      WalletFromDomain(r.Wallet),
	}
}

// EquipmentResponse represents a piece of room equipment.
type EquipmentResponse struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// RoomTypeResponse represents a room type with its price.
type RoomTypeResponse struct {
	Type          string              `json:"type"`
	PricePerNight MoneyResponse       `json:"price_per_night"`
	Equipment     []EquipmentResponse `json:"equipment"`
}

// RoomTypeFromDomain converts room type info to response.
func RoomTypeFromDomain(info domain.RoomTypeInfo) RoomTypeResponse {
	resp := RoomTypeResponse{
		Type:          string(info.Type),
		PricePerNight: MoneyFromDomain(info.PricePerNight),
		Equipment:     make([]EquipmentResponse, len(info.Equipment)),
	}
	for i, e := range info.Equipment {
		resp.Equipment[i] = EquipmentResponse{Name: e.Name, Description: e.Description}
	}
	return resp
}

// ReconciliationResponse represents a wallet reconciliation report.
type ReconciliationResponse struct {
	TotalWallets      int                   `json:"total_wallets"`
	ReconciledWallets int                   `json:"reconciled_wallets"`
	Discrepancies     []DiscrepancyResponse `json:"discrepancies"`
	CheckedAt         time.Time             `json:"checked_at"`
}

// DiscrepancyResponse is a wallet whose balance disagrees with its transactions.
type DiscrepancyResponse struct {
	WalletID          string          `json:"wallet_id"`
	CustomerID        string          `json:"customer_id"`
	RecordedBalance   decimal.Decimal `json:"recorded_balance"`
	CalculatedBalance decimal.Decimal `json:"calculated_balance"`
	Difference        decimal.Decimal `json:"difference"`
}

// ReconciliationFromUseCase converts a reconciliation report to response.
func ReconciliationFromUseCase(r *usecase.ReconciliationReport) *ReconciliationResponse {
	resp := &ReconciliationResponse{
		TotalWallets:      r.TotalWallets,
		ReconciledWallets: r.ReconciledWallets,
		Discrepancies:     make([]DiscrepancyResponse, len(r.Discrepancies)),
		CheckedAt:         r.CheckedAt,
	}
	for i, d := range r.Discrepancies {
		resp.Discrepancies[i] = DiscrepancyResponse{
			WalletID:          d.WalletID,
			CustomerID:        d.CustomerID,
			RecordedBalance:   d.RecordedBalance,
			CalculatedBalance: d.CalculatedBalance,
			Difference:        d.Difference,
		}
	}
	return resp
}

// AuditLogResponse represents an audit log entry.
type AuditLogResponse struct {
	ID           string         `json:"id"`
	Action       string         `json:"action"`
	ResourceType string         `json:"resource_type"`
	ResourceID   string         `json:"resource_id"`
	RequestID    string         `json:"request_id,omitempty"`
	BeforeState  map[string]any `json:"before_state,omitempty"`
	AfterState   map[string]any `json:"after_state,omitempty"`
	Status       string         `json:"status"`
	ErrorMessage string         `json:"error_message,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}

// AuditLogsFromDomain converts audit logs to responses.
func AuditLogsFromDomain(logs []*domain.AuditLog) []*AuditLogResponse {
	result := make([]*AuditLogResponse, len(logs))
	for i, l := range logs {
		result[i] = &AuditLogResponse{
			ID:           l.ID,
			Action:       string(l.Action),
			ResourceType: l.ResourceType,
			ResourceID:   l.ResourceID,
			RequestID:    l.RequestID,
			BeforeState:  l.BeforeState,
			AfterState:   l.AfterState,
			Status:       string(l.Status),
			ErrorMessage: l.ErrorMessage,
			CreatedAt:    l.CreatedAt,
		}
	}
	return result
}

// OutboxEventResponse represents a recorded domain event.
type OutboxEventResponse struct {
	ID            string         `json:"id"`
	AggregateType string         `json:"aggregate_type"`
	AggregateID   string         `json:"aggregate_id"`
	EventType     string         `json:"event_type"`
	Payload       map[string]any `json:"payload"`
	CreatedAt     time.Time      `json:"created_at"`
	PublishedAt   *time.Time     `json:"published_at,omitempty"`
}

// OutboxEventsFromDomain converts outbox events to responses.
func OutboxEventsFromDomain(events []*domain.OutboxEvent) []*OutboxEventResponse {
	result := make([]*OutboxEventResponse, len(events))
	for i, e := range events {
		result[i] = &OutboxEventResponse{
			ID:            e.ID,
			AggregateType: e.AggregateType,
			AggregateID:   e.AggregateID,
			EventType:     e.EventType,
			Payload:       e.Payload,
			CreatedAt:     e.CreatedAt,
			PublishedAt:   e.PublishedAt,
		}
	}
	return result
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// InsufficientFundsResponse is returned when a wallet cannot cover a payment.
type InsufficientFundsResponse struct {
	Error     string        `json:"error"`
	Message   string        `json:"message,omitempty"`
	Required  MoneyResponse `json:"required"`
	Balance   MoneyResponse `json:"balance"`
	Shortfall MoneyResponse `json:"shortfall"`
}
