package dto

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gohotel/internal/domain"
	"github.com/iho/gohotel/internal/usecase"
)

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

// CreateCustomerRequest represents a request to register a customer.
type CreateCustomerRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateCustomerRequest) ToUseCaseInput() usecase.CreateCustomerInput {
	return usecase.CreateCustomerInput{
		FullName: r.FullName,
		Email:    r.Email,
		Phone:    r.Phone,
	}
}

// UpdateCustomerRequest represents a partial customer update.
type UpdateCustomerRequest struct {
	FullName string `json:"full_name,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateCustomerRequest) ToUseCaseInput(id string) usecase.UpdateCustomerInput {
	return usecase.UpdateCustomerInput{
		ID:       id,
		FullName: r.FullName,
		Email:    r.Email,
		Phone:    r.Phone,
	}
}

// CreditWalletRequest represents a request to add funds to a wallet.
type CreditWalletRequest struct {
	Amount       decimal.Decimal  `json:"amount"`
	Currency     string           `json:"currency,omitempty"`
	ExchangeRate *decimal.Decimal `json:"exchange_rate,omitempty"`
	Reason       string           `json:"reason"`
}

// ToUseCaseInput converts to use case input.
func (r *CreditWalletRequest) ToUseCaseInput(customerID string) usecase.CreditWalletInput {
	return usecase.CreditWalletInput{
		CustomerID:   customerID,
		Amount:       r.Amount,
		Currency:     r.Currency,
		ExchangeRate: r.ExchangeRate,
		Reason:       r.Reason,
	}
}

// CreateBookingRequest represents a request to book rooms.
type CreateBookingRequest struct {
	CustomerID   string `json:"customer_id"`
	RoomType     string `json:"room_type"`
	RoomQuantity int    `json:"room_quantity"`
	CheckIn      string `json:"check_in"`
	Nights       int    `json:"nights"`
}

// ToUseCaseInput converts to use case input. CheckIn must be YYYY-MM-DD.
func (r *CreateBookingRequest) ToUseCaseInput() (usecase.CreateBookingInput, error) {
	checkIn, err := time.Parse(DateLayout, r.CheckIn)
	if err != nil {
		return usecase.CreateBookingInput{}, fmt.Errorf("%w: check_in must be a YYYY-MM-DD date", domain.ErrValidation)
	}

	return usecase.CreateBookingInput{
		CustomerID:   r.CustomerID,
		RoomType:     r.RoomType,
		RoomQuantity: r.RoomQuantity,
		CheckIn:      checkIn,
		Nights:       r.Nights,
	}, nil
}
