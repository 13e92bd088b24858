package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func newTestWallet(t *testing.T) *Wallet {
	t.Helper()
	w, err := NewWallet("wallet-1", "customer-1", time.Now().UTC())
	if err != nil {
		t.Fatalf("NewWallet: %v", err)
	}
	return w
}

func assertLedger(t *testing.T, w *Wallet) {
	t.Helper()
	sum := decimal.Zero
	for _, tx := range w.Transactions() {
		sum = sum.Add(tx.SignedAmount())
		if !tx.IsProcessed() {
			t.Errorf("transaction %s not processed", tx.ID)
		}
	}
	if !sum.Equal(w.Balance().Amount()) {
		t.Errorf("balance %s does not match transactions %s", w.Balance().Amount(), sum)
	}
	if w.Balance().Amount().IsNegative() {
		t.Errorf("negative balance %s", w.Balance())
	}
}

func TestWallet_Credit(t *testing.T) {
	w := newTestWallet(t)

	tx, err := w.Credit(Euros(500), "Initial deposit", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tx.Type != TransactionTypeCredit || !tx.Amount.Equal(Euros(500)) {
		t.Errorf("unexpected transaction %+v", tx)
	}
	if tx.WalletID != w.ID {
		t.Errorf("expected wallet id %s, got %s", w.ID, tx.WalletID)
	}
	if !w.Balance().Equal(Euros(500)) {
		t.Errorf("expected balance 500, got %s", w.Balance())
	}
	assertLedger(t, w)
}

func TestWallet_CreditErrors(t *testing.T) {
	usd := MustMoney(decimal.NewFromInt(100), CurrencyUSD)
	rate, _ := NewExchangeRate(CurrencyGBP, decimal.RequireFromString("1.15"))

	tests := []struct {
		name        string
		amount      Money
		reason      string
		rate        *ExchangeRate
		expectError error
	}{
		{name: "zero amount", amount: Euros(0), reason: "x", expectError: ErrInvalidAmount},
		{name: "blank reason", amount: Euros(10), reason: "   ", expectError: ErrValidation},
		{name: "foreign without rate", amount: usd, reason: "x", expectError: ErrMissingExchangeRate},
		{name: "rate for other currency", amount: usd, reason: "x", rate: &rate, expectError: ErrCurrencyMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newTestWallet(t)
			_, err := w.Credit(tt.amount, tt.reason, tt.rate)
			if !errors.Is(err, tt.expectError) {
				t.Fatalf("expected %v, got %v", tt.expectError, err)
			}
			if !w.Balance().IsZero() || len(w.Transactions()) != 0 {
				t.Errorf("failed credit changed the wallet: %s, %d transactions", w.Balance(), len(w.Transactions()))
			}
		})
	}
}

func TestWallet_CreditForeignCurrency(t *testing.T) {
	w := newTestWallet(t)
	rate, _ := NewExchangeRate(CurrencyUSD, decimal.RequireFromString("0.9"))

	tx, err := w.Credit(MustMoney(decimal.NewFromInt(100), CurrencyUSD), "Top up", &rate)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tx.Amount.Currency() != BaseCurrency || !tx.Amount.Equal(Euros(90)) {
		t.Errorf("expected 90 EUR stored, got %s", tx.Amount)
	}
	assertLedger(t, w)
}

func TestWallet_Debit(t *testing.T) {
	t.Run("sufficient funds", func(t *testing.T) {
		w := newTestWallet(t)
		_, _ = w.Credit(Euros(500), "Initial", nil)

		tx, err := w.Debit(Euros(250), "Booking deposit")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if tx.Type != TransactionTypeDebit {
			t.Errorf("expected DEBIT, got %s", tx.Type)
		}
		if !w.Balance().Equal(Euros(250)) {
			t.Errorf("expected 250, got %s", w.Balance())
		}
		assertLedger(t, w)
	})

	t.Run("exact balance", func(t *testing.T) {
		w := newTestWallet(t)
		_, _ = w.Credit(Euros(50), "Initial", nil)
		if _, err := w.Debit(Euros(50), "All of it"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !w.Balance().IsZero() {
			t.Errorf("expected zero balance, got %s", w.Balance())
		}
	})

	t.Run("insufficient funds", func(t *testing.T) {
		w := newTestWallet(t)
		_, _ = w.Credit(Euros(30), "Initial", nil)

		_, err := w.Debit(Euros(50), "Deposit")
		if !errors.Is(err, ErrInsufficientFunds) {
			t.Fatalf("expected ErrInsufficientFunds, got %v", err)
		}
		if !w.Balance().Equal(Euros(30)) || len(w.Transactions()) != 1 {
			t.Errorf("failed debit changed the wallet")
		}

		var fundsErr *InsufficientFundsError
		if !errors.As(err, &fundsErr) {
			t.Fatalf("expected *InsufficientFundsError, got %T", err)
		}
		if !fundsErr.Shortfall().Equal(Euros(20)) || !fundsErr.Required.Equal(Euros(50)) {
			t.Errorf("unexpected error details %+v", fundsErr)
		}
	})

	t.Run("foreign currency", func(t *testing.T) {
		w := newTestWallet(t)
		_, err := w.Debit(MustMoney(decimal.NewFromInt(1), CurrencyUSD), "x")
		if !errors.Is(err, ErrCurrencyMismatch) {
			t.Fatalf("expected ErrCurrencyMismatch, got %v", err)
		}
	})

	t.Run("zero amount", func(t *testing.T) {
		w := newTestWallet(t)
		if _, err := w.Debit(Euros(0), "x"); !errors.Is(err, ErrInvalidAmount) {
			t.Fatalf("expected ErrInvalidAmount, got %v", err)
		}
	})
}

func TestWallet_TransactionHistoryNewestFirst(t *testing.T) {
	w := newTestWallet(t)
	first, _ := w.Credit(Euros(100), "first", nil)
	second, _ := w.Debit(Euros(40), "second")
	third, _ := w.Credit(Euros(5), "third", nil)

	history := w.TransactionHistory()
	if len(history) != 3 {
		t.Fatalf("expected 3 transactions, got %d", len(history))
	}
	if !history[0].SameAs(third) || !history[1].SameAs(second) || !history[2].SameAs(first) {
		t.Errorf("unexpected order: %s, %s, %s", history[0].Reason, history[1].Reason, history[2].Reason)
	}
	assertLedger(t, w)
}

func TestRestoreWallet(t *testing.T) {
	w := newTestWallet(t)
	_, _ = w.Credit(Euros(100), "in", nil)
	_, _ = w.Debit(Euros(30), "out")

	restored, err := RestoreWallet(w.ID, w.CustomerID, w.Balance(), w.Transactions(), 2, w.CreatedAt, w.UpdatedAt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !restored.SameAs(w) || !restored.Balance().Equal(Euros(70)) || restored.Version != 2 {
		t.Errorf("unexpected restored wallet %+v", restored)
	}

	_, err = RestoreWallet(w.ID, w.CustomerID, Euros(1), w.Transactions(), 2, w.CreatedAt, w.UpdatedAt)
	if !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation for inconsistent ledger, got %v", err)
	}
}

func TestWallet_ConvertedCreditsRestoreFromStoredScale(t *testing.T) {
	w := newTestWallet(t)
	rate, _ := NewExchangeRate(CurrencyUSD, decimal.RequireFromString("0.33333"))
	oneDollar := MustMoney(decimal.NewFromInt(1), CurrencyUSD)

	for i := 0; i < 2; i++ {
		if _, err := w.Credit(oneDollar, "Top up", &rate); err != nil {
			t.Fatalf("credit %d: %v", i, err)
		}
	}
	assertLedger(t, w)

	// Storage keeps AmountScale decimals, so round everything as a reload would.
	stored := make([]*Transaction, 0, len(w.Transactions()))
	for _, tx := range w.Transactions() {
		c := *tx
		c.Amount = MustMoney(tx.Amount.Amount().Round(AmountScale), tx.Amount.Currency())
		stored = append(stored, &c)
	}
	balance := MustMoney(w.Balance().Amount().Round(AmountScale), BaseCurrency)

	restored, err := RestoreWallet(w.ID, w.CustomerID, balance, stored, 1, w.CreatedAt, w.UpdatedAt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !restored.Balance().Equal(MustMoney(decimal.RequireFromString("0.6666"), BaseCurrency)) {
		t.Errorf("expected 0.6666 EUR, got %s", restored.Balance().Amount())
	}
}

func TestWallet_CreditBelowSmallestUnit(t *testing.T) {
	w := newTestWallet(t)
	rate, _ := NewExchangeRate(CurrencyJPY, decimal.RequireFromString("0.1"))

	_, err := w.Credit(MustMoney(decimal.RequireFromString("0.0001"), CurrencyJPY), "Top up", &rate)
	if !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	if !w.Balance().IsZero() || len(w.Transactions()) != 0 {
		t.Errorf("rejected credit changed the wallet")
	}
}

func TestWallet_UnsavedTransactions(t *testing.T) {
	w := newTestWallet(t)
	first, _ := w.Credit(Euros(100), "first", nil)

	if got := w.UnsavedTransactions(); len(got) != 1 || !got[0].SameAs(first) {
		t.Fatalf("expected the new credit to be unsaved, got %d", len(got))
	}

	w.MarkSaved()
	if len(w.UnsavedTransactions()) != 0 {
		t.Fatalf("expected nothing unsaved after MarkSaved")
	}

	second, _ := w.Debit(Euros(40), "second")
	if got := w.UnsavedTransactions(); len(got) != 1 || !got[0].SameAs(second) {
		t.Errorf("expected only the debit to be unsaved")
	}

	restored, err := RestoreWallet(w.ID, w.CustomerID, w.Balance(), w.Transactions(), 1, w.CreatedAt, w.UpdatedAt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(restored.UnsavedTransactions()) != 0 {
		t.Errorf("restored transactions must count as saved")
	}
}

func TestRestoreWalletHead(t *testing.T) {
	now := time.Now().UTC()

	w, err := RestoreWalletHead("wallet-1", "customer-1", Euros(70), decimal.RequireFromString("70.0000"), 3, now, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !w.Balance().Equal(Euros(70)) || w.Version != 3 || len(w.Transactions()) != 0 {
		t.Fatalf("unexpected wallet %+v", w)
	}

	debit, err := w.Debit(Euros(20), "Deposit")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := w.UnsavedTransactions(); len(got) != 1 || !got[0].SameAs(debit) {
		t.Errorf("expected the debit to be unsaved")
	}

	_, err = RestoreWalletHead("wallet-1", "customer-1", Euros(70), decimal.NewFromInt(69), 3, now, now)
	if !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation for diverging ledger, got %v", err)
	}
}

func TestWallet_CloneIsIndependent(t *testing.T) {
	w := newTestWallet(t)
	_, _ = w.Credit(Euros(10), "in", nil)

	c := w.Clone()
	_, _ = c.Credit(Euros(5), "more", nil)

	if !w.Balance().Equal(Euros(10)) || len(w.Transactions()) != 1 {
		t.Errorf("mutating the clone changed the original")
	}
}
