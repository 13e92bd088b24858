package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
)

// TransactionType tells whether a wallet transaction added or removed funds.
type TransactionType string

const (
	TransactionTypeCredit TransactionType = "CREDIT"
	TransactionTypeDebit  TransactionType = "DEBIT"
)

// Transaction is a processed wallet movement. Amount is always positive.
type Transaction struct {
	ID          string
	WalletID    string
	Amount      Money
	Reason      string
	Type        TransactionType
	CreatedAt   time.Time
	ProcessedAt *time.Time
}

// IsProcessed reports whether the transaction carries a completion timestamp.
func (t *Transaction) IsProcessed() bool {
	return t.ProcessedAt != nil
}

// SignedAmount returns the amount with debits negated.
func (t *Transaction) SignedAmount() decimal.Decimal {
	if t.Type == TransactionTypeDebit {
		return t.Amount.Amount().Neg()
	}
	return t.Amount.Amount()
}

// SameAs compares transactions by identity.
func (t *Transaction) SameAs(other *Transaction) bool {
	return other != nil && t.ID == other.ID
}

func (t *Transaction) markProcessed(at time.Time) {
	t.ProcessedAt = &at
}

// Wallet holds a customer's prepaid balance in the base currency.
// balance and transactions change only through Credit and Debit.
type Wallet struct {
	ID         string
	CustomerID string
	Version    int64
	CreatedAt  time.Time
	UpdatedAt  time.Time

	balance      Money
	transactions []*Transaction
	// saved counts the leading transactions already in storage.
	saved int
}

// NewWallet creates an empty wallet for a customer.
func NewWallet(id, customerID string, now time.Time) (*Wallet, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: wallet id cannot be empty", ErrValidation)
	}
	if strings.TrimSpace(customerID) == "" {
		return nil, fmt.Errorf("%w: customer id cannot be empty", ErrValidation)
	}

	return &Wallet{
		ID:         id,
		CustomerID: customerID,
		CreatedAt:  now,
		UpdatedAt:  now,
		balance:    ZeroMoney(BaseCurrency),
	}, nil
}

// RestoreWallet rebuilds a persisted wallet. Transactions must be in creation order
// and must add up to balance.
func RestoreWallet(id, customerID string, balance Money, transactions []*Transaction, version int64, createdAt, updatedAt time.Time) (*Wallet, error) {
	sum := decimal.Zero
	for _, t := range transactions {
		sum = sum.Add(t.SignedAmount())
	}

	w, err := RestoreWalletHead(id, customerID, balance, sum, version, createdAt, updatedAt)
	if err != nil {
		return nil, err
	}
	w.transactions = append([]*Transaction(nil), transactions...)
	w.saved = len(w.transactions)
	return w, nil
}

// RestoreWalletHead rebuilds a persisted wallet without loading its history.
// ledger is the signed sum of the stored transactions and must equal balance.
// Transactions then lists only what is added after the restore.
func RestoreWalletHead(id, customerID string, balance Money, ledger decimal.Decimal, version int64, createdAt, updatedAt time.Time) (*Wallet, error) {
	w, err := NewWallet(id, customerID, createdAt)
	if err != nil {
		return nil, err
	}
	if balance.Currency() != BaseCurrency {
		return nil, currencyMismatch(balance.Currency(), BaseCurrency)
	}
	if !ledger.Equal(balance.Amount()) {
		return nil, fmt.Errorf("%w: wallet %s balance %s does not match transactions %s", ErrValidation, id, balance.Amount(), ledger)
	}

	w.balance = balance
	w.Version = version
	w.UpdatedAt = updatedAt
	return w, nil
}

// Balance returns the current balance.
func (w *Wallet) Balance() Money {
	return w.balance
}

// Transactions returns the transactions in creation order.
func (w *Wallet) Transactions() []*Transaction {
	return append([]*Transaction(nil), w.transactions...)
}

// UnsavedTransactions returns the transactions added since the wallet was
// restored or last marked saved.
func (w *Wallet) UnsavedTransactions() []*Transaction {
	return append([]*Transaction(nil), w.transactions[w.saved:]...)
}

// MarkSaved records that every transaction is in storage.
func (w *Wallet) MarkSaved() {
	w.saved = len(w.transactions)
}

// Credit adds funds. Foreign amounts need a rate and are stored converted.
func (w *Wallet) Credit(amount Money, reason string, rate *ExchangeRate) (*Transaction, error) {
	converted := amount
	if amount.Currency() != BaseCurrency {
		if rate == nil {
			return nil, fmt.Errorf("%w: %s", ErrMissingExchangeRate, amount.Currency())
		}
		var err error
		converted, err = rate.Convert(amount)
		if err != nil {
			return nil, err
		}
	}
	if converted.IsZero() {
		return nil, fmt.Errorf("%w: credit must be positive", ErrInvalidAmount)
	}

	reason, err := normalizeReason(reason)
	if err != nil {
		return nil, err
	}

	newBalance, err := w.balance.Add(converted)
	if err != nil {
		return nil, err
	}

	tx := w.newTransaction(converted, reason, TransactionTypeCredit)
	w.apply(tx, newBalance)

	return tx, nil
}

// Debit removes funds. It never leaves the balance negative.
func (w *Wallet) Debit(amount Money, reason string) (*Transaction, error) {
	if amount.Currency() != BaseCurrency {
		return nil, fmt.Errorf("%w: debits must be in %s", ErrCurrencyMismatch, BaseCurrency)
	}
	if amount.IsZero() {
		return nil, fmt.Errorf("%w: debit must be positive", ErrInvalidAmount)
	}

	reason, err := normalizeReason(reason)
	if err != nil {
		return nil, err
	}

	if !w.HasSufficientFunds(amount) {
		return nil, &InsufficientFundsError{Balance: w.balance, Required: amount}
	}

	newBalance, err := w.balance.Subtract(amount)
	if err != nil {
		return nil, err
	}

	tx := w.newTransaction(amount, reason, TransactionTypeDebit)
	w.apply(tx, newBalance)

	return tx, nil
}

// HasSufficientFunds reports whether the balance covers required.
// Amounts in another currency are never covered.
func (w *Wallet) HasSufficientFunds(required Money) bool {
	ok, err := w.balance.IsSufficientFor(required)
	return err == nil && ok
}

// TransactionHistory returns transactions newest first. Transactions created at the
// same instant keep their reverse creation order.
func (w *Wallet) TransactionHistory() []*Transaction {
	history := make([]*Transaction, 0, len(w.transactions))
	for i := len(w.transactions) - 1; i >= 0; i-- {
		history = append(history, w.transactions[i])
	}
	return history
}

// SameAs compares wallets by identity.
func (w *Wallet) SameAs(other *Wallet) bool {
	return other != nil && w.ID == other.ID
}

// Clone returns a deep copy that shares only immutable transactions.
func (w *Wallet) Clone() *Wallet {
	c := *w
	c.transactions = append([]*Transaction(nil), w.transactions...)
	return &c
}

func (w *Wallet) newTransaction(amount Money, reason string, typ TransactionType) *Transaction {
	now := time.Now().UTC()
	tx := &Transaction{
		ID:        ulid.Make().String(),
		WalletID:  w.ID,
		Amount:    amount,
		Reason:    reason,
		Type:      typ,
		CreatedAt: now,
	}
	tx.markProcessed(now)
	return tx
}

func (w *Wallet) apply(tx *Transaction, newBalance Money) {
	w.transactions = append(w.transactions, tx)
	w.balance = newBalance
	w.UpdatedAt = tx.CreatedAt
}

func normalizeReason(reason string) (string, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return "", fmt.Errorf("%w: transaction reason cannot be empty", ErrValidation)
	}
	return reason, nil
}
