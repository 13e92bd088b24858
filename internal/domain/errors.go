package domain

import (
	"errors"
	"fmt"
)

var (
	// Money errors
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrCurrencyMismatch    = errors.New("currency mismatch")
	ErrNegativeResult      = errors.New("result would be negative")
	ErrMissingExchangeRate = errors.New("exchange rate required for foreign currency")

	// Wallet errors
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrWalletNotFound    = errors.New("wallet not found")

	// Booking errors
	ErrInvalidState       = errors.New("invalid booking state")
	ErrDepositRequired    = errors.New("deposit must be paid before confirmation")
	ErrDepositAlreadyPaid = fmt.Errorf("%w: deposit already paid", ErrInvalidState)
	ErrAlreadyCancelled   = errors.New("booking already cancelled")
	ErrBookingNotFound    = errors.New("booking not found")

	// Customer errors
	ErrCustomerNotFound = errors.New("customer not found")
	ErrEmailAlreadyUsed = errors.New("email already used")
	ErrCustomerInactive = errors.New("customer is suspended")

	// Shared errors
	ErrValidation             = errors.New("validation error")
	ErrConcurrentModification = errors.New("aggregate was modified concurrently")
)

// InsufficientFundsError reports how far a wallet is from covering a debit.
type InsufficientFundsError struct {
	Balance  Money
	Required Money
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("%s: balance %s, required %s", ErrInsufficientFunds, e.Balance, e.Required)
}

func (e *InsufficientFundsError) Unwrap() error {
	return ErrInsufficientFunds
}

// Shortfall is the amount missing to cover the debit.
func (e *InsufficientFundsError) Shortfall() Money {
	missing, err := e.Required.Subtract(e.Balance)
	if err != nil {
		return ZeroMoney(e.Required.Currency())
	}
	return missing
}
