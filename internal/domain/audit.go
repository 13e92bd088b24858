package domain

import (
	"encoding/json"
	"time"
)

// AuditLog is an audit trail entry for every state change.
type AuditLog struct {
	ID           string
	Action       AuditAction
	ResourceType string
	ResourceID   string
	RequestID    string
	BeforeState  JSON
	AfterState   JSON
	Status       AuditStatus
	ErrorMessage string
	CreatedAt    time.Time
}

// JSON is a type alias for JSON data
type JSON map[string]any

// AuditAction represents different types of auditable actions
type AuditAction string

const (
	AuditActionCustomerCreate     AuditAction = "customer.create"
	AuditActionCustomerUpdate     AuditAction = "customer.update"
	AuditActionCustomerSuspend    AuditAction = "customer.suspend"
	AuditActionCustomerReactivate AuditAction = "customer.reactivate"

	AuditActionWalletCredit AuditAction = "wallet.credit"

	AuditActionBookingCreate     AuditAction = "booking.create"
	AuditActionBookingPayDeposit AuditAction = "booking.pay_deposit"
	AuditActionBookingPayBalance AuditAction = "booking.pay_balance"
	AuditActionBookingCancel     AuditAction = "booking.cancel"
)

// AuditStatus represents the status of an audited action
type AuditStatus string

const (
	AuditStatusSuccess AuditStatus = "success"
	AuditStatusFailure AuditStatus = "failure"
)

// MarshalState converts a value to JSON for audit logging and event payloads.
func MarshalState(v any) JSON {
	if v == nil {
		return nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return JSON{"error": "failed to marshal state"}
	}

	var result JSON
	if err := json.Unmarshal(data, &result); err != nil {
		return JSON{"error": "failed to unmarshal state"}
	}

	return result
}

// AuditFilter defines filters for querying audit logs
type AuditFilter struct {
	Action       AuditAction
	ResourceType string
	ResourceID   string
	StartDate    *time.Time
	EndDate      *time.Time
	Limit        int
	Offset       int
}

// WalletSnapshot is the audit view of a wallet.
func WalletSnapshot(w *Wallet) JSON {
	if w == nil {
		return nil
	}
	return JSON{
		"wallet_id":   w.ID,
		"customer_id": w.CustomerID,
		"balance":     w.Balance().Amount().String(),
		"currency":    string(w.Balance().Currency()),
		"version":     w.Version,
	}
}

// BookingSnapshot is the audit view of a booking.
func BookingSnapshot(b *Booking) JSON {
	if b == nil {
		return nil
	}
	return JSON{
		"booking_id": b.ID,
		"status":     string(b.Status()),
		"total":      b.TotalAmount.Amount().String(),
		"total_paid": b.TotalPaid().Amount().String(),
		"payments":   len(b.Payments()),
		"version":    b.Version,
	}
}

// CustomerSnapshot is the audit view of a customer.
func CustomerSnapshot(c *Customer) JSON {
	if c == nil {
		return nil
	}
	return JSON{
		"customer_id": c.ID,
		"full_name":   c.FullName,
		"email":       c.Email,
		"phone":       c.Phone,
		"status":      string(c.Status),
	}
}
