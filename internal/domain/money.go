package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Currency is an ISO 4217 code accepted by the hotel.
type Currency string

const (
	CurrencyEUR Currency = "EUR"
	CurrencyUSD Currency = "USD"
	CurrencyGBP Currency = "GBP"
	CurrencyJPY Currency = "JPY"
	CurrencyCHF Currency = "CHF"
)

// BaseCurrency is the settlement currency of every wallet and booking.
const BaseCurrency = CurrencyEUR

// AmountScale is the number of decimal places a stored amount keeps.
// It matches the NUMERIC(20, 4) columns.
const AmountScale int32 = 4

var supportedCurrencies = map[Currency]bool{
	CurrencyEUR: true,
	CurrencyUSD: true,
	CurrencyGBP: true,
	CurrencyJPY: true,
	CurrencyCHF: true,
}

// ParseCurrency normalizes and validates a currency code.
func ParseCurrency(code string) (Currency, error) {
	c := Currency(strings.ToUpper(strings.TrimSpace(code)))
	if !supportedCurrencies[c] {
		return "", fmt.Errorf("%w: unsupported currency %q", ErrValidation, code)
	}
	return c, nil
}

// IsValid reports whether the currency is supported.
func (c Currency) IsValid() bool {
	return supportedCurrencies[c]
}

// Money is an exact, non-negative amount in a currency with at most
// AmountScale decimal places. The zero value is not valid; use NewMoney.
type Money struct {
	amount   decimal.Decimal
	currency Currency
}

// NewMoney builds a Money value.
func NewMoney(amount decimal.Decimal, currency Currency) (Money, error) {
	if !currency.IsValid() {
		return Money{}, fmt.Errorf("%w: unsupported currency %q", ErrValidation, currency)
	}
	if amount.IsNegative() {
		return Money{}, fmt.Errorf("%w: %s is negative", ErrInvalidAmount, amount)
	}
	if !amount.Equal(amount.Truncate(AmountScale)) {
		return Money{}, fmt.Errorf("%w: %s has more than %d decimal places", ErrInvalidAmount, amount, AmountScale)
	}
	return Money{amount: amount, currency: currency}, nil
}

// MustMoney is NewMoney for constants known to be valid. It panics otherwise.
func MustMoney(amount decimal.Decimal, currency Currency) Money {
	m, err := NewMoney(amount, currency)
	if err != nil {
		panic(err)
	}
	return m
}

// Euros builds a base-currency amount from an integer number of euros.
func Euros(units int64) Money {
	return MustMoney(decimal.NewFromInt(units), BaseCurrency)
}

// ZeroMoney returns a zero amount in the given currency.
func ZeroMoney(currency Currency) Money {
	return Money{amount: decimal.Zero, currency: currency}
}

// Amount returns the decimal amount.
func (m Money) Amount() decimal.Decimal { return m.amount }

// Currency returns the currency code.
func (m Money) Currency() Currency { return m.currency }

// IsZero reports whether the amount is zero.
func (m Money) IsZero() bool { return m.amount.IsZero() }

// Add returns m + other.
func (m Money) Add(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, currencyMismatch(m.currency, other.currency)
	}
	return Money{amount: m.amount.Add(other.amount), currency: m.currency}, nil
}

// Subtract returns m - other. The result is never negative.
func (m Money) Subtract(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, currencyMismatch(m.currency, other.currency)
	}
	if m.amount.LessThan(other.amount) {
		return Money{}, fmt.Errorf("%w: %s - %s", ErrNegativeResult, m.amount, other.amount)
	}
	return Money{amount: m.amount.Sub(other.amount), currency: m.currency}, nil
}

// Multiply scales the amount by a non-negative factor, rounded half away
// from zero to AmountScale.
func (m Money) Multiply(factor decimal.Decimal) (Money, error) {
	if factor.IsNegative() {
		return Money{}, fmt.Errorf("%w: negative factor %s", ErrInvalidAmount, factor)
	}
	return Money{amount: m.amount.Mul(factor).Round(AmountScale), currency: m.currency}, nil
}

// IsSufficientFor reports whether m covers required.
func (m Money) IsSufficientFor(required Money) (bool, error) {
	if m.currency != required.currency {
		return false, currencyMismatch(m.currency, required.currency)
	}
	return m.amount.GreaterThanOrEqual(required.amount), nil
}

// ToBase converts m into the base currency using rate (base units per unit of m).
// The result is rounded to AmountScale. Amounts already in the base currency
// are returned unchanged.
func (m Money) ToBase(rate decimal.Decimal) (Money, error) {
	if m.currency == BaseCurrency {
		return m, nil
	}
	if !rate.IsPositive() {
		return Money{}, fmt.Errorf("%w: exchange rate must be positive", ErrValidation)
	}
	return Money{amount: m.amount.Mul(rate).Round(AmountScale), currency: BaseCurrency}, nil
}

// Equal compares amount and currency. 10.0 EUR equals 10 EUR.
func (m Money) Equal(other Money) bool {
	return m.currency == other.currency && m.amount.Equal(other.amount)
}

// String renders the amount with two decimals and the currency code.
func (m Money) String() string {
	return m.amount.StringFixed(2) + " " + string(m.currency)
}

func currencyMismatch(a, b Currency) error {
	return fmt.Errorf("%w: %s vs %s", ErrCurrencyMismatch, a, b)
}

// ExchangeRate converts a foreign currency into the base currency.
type ExchangeRate struct {
	from Currency
	rate decimal.Decimal
}

// NewExchangeRate validates a conversion rate from a currency into the base currency.
func NewExchangeRate(from Currency, rate decimal.Decimal) (ExchangeRate, error) {
	if !from.IsValid() {
		return ExchangeRate{}, fmt.Errorf("%w: unsupported currency %q", ErrValidation, from)
	}
	if !rate.IsPositive() {
		return ExchangeRate{}, fmt.Errorf("%w: exchange rate must be positive", ErrValidation)
	}
	return ExchangeRate{from: from, rate: rate}, nil
}

// From returns the source currency.
func (r ExchangeRate) From() Currency { return r.from }

// Rate returns base units per source unit.
func (r ExchangeRate) Rate() decimal.Decimal { return r.rate }

// Convert converts money in the rate's source currency into the base currency.
func (r ExchangeRate) Convert(m Money) (Money, error) {
	if m.currency != r.from {
		return Money{}, fmt.Errorf("%w: rate is for %s, got %s", ErrCurrencyMismatch, r.from, m.currency)
	}
	return m.ToBase(r.rate)
}
