package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/gohotel/internal/domain"
	"github.com/iho/gohotel/internal/usecase"
)

func TestWalletUseCase_GetWalletCreatesEmptyWallet(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	customer := env.createCustomer(t, "empty@example.com")

	history, err := env.wallets.GetTransactionHistory(ctx, usecase.GetTransactionHistoryInput{CustomerID: customer.ID})
	require.NoError(t, err)
	assert.Empty(t, history)

	wallet, err := env.wallets.GetWallet(ctx, customer.ID)
	require.NoError(t, err)
	assert.Equal(t, customer.ID, wallet.CustomerID)
	assert.True(t, wallet.Balance().Equal(domain.Euros(0)))

	again, err := env.wallets.GetWallet(ctx, customer.ID)
	require.NoError(t, err)
	assert.Equal(t, wallet.ID, again.ID)

	_, err = env.wallets.GetWallet(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrCustomerNotFound)
}

func TestWalletUseCase_CreditWallet(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	customer := env.createCustomer(t, "credit@example.com")

	first := env.credit(t, customer.ID, 120)
	assert.Equal(t, domain.TransactionTypeCredit, first.Transaction.Type)
	assert.True(t, first.Transaction.IsProcessed())
	assert.Equal(t, "Top up", first.Transaction.Reason)

	second := env.credit(t, customer.ID, 30)
	assert.True(t, second.Wallet.Balance().Equal(domain.Euros(150)))
	assert.Equal(t, first.Wallet.ID, second.Wallet.ID)

	history, err := env.wallets.GetTransactionHistory(ctx, usecase.GetTransactionHistoryInput{CustomerID: customer.ID, Limit: 1})
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, second.Transaction.ID, history[0].ID)

	events, err := env.outbox.GetByAggregate(ctx, domain.AggregateTypeWallet, first.Wallet.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, domain.EventTypeWalletCredited, events[0].EventType)
	assert.Equal(t, "150", events[1].Payload["balance"])
}

func TestWalletUseCase_CreditWalletForeignCurrency(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	customer := env.createCustomer(t, "fx@example.com")
	rate := decimal.RequireFromString("0.9")

	res, err := env.wallets.CreditWallet(ctx, usecase.CreditWalletInput{
		CustomerID:   customer.ID,
		Amount:       decimal.NewFromInt(100),
		Currency:     "usd",
		ExchangeRate: &rate,
		Reason:       "Card top up",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.BaseCurrency, res.Transaction.Amount.Currency())
	assert.True(t, res.Wallet.Balance().Equal(domain.Euros(90)), "got %s", res.Wallet.Balance())

	_, err = env.wallets.CreditWallet(ctx, usecase.CreditWalletInput{
		CustomerID: customer.ID,
		Amount:     decimal.NewFromInt(100),
		Currency:   "USD",
		Reason:     "No rate",
	})
	assert.ErrorIs(t, err, domain.ErrMissingExchangeRate)
}

func TestWalletUseCase_RepeatedConvertedCreditsReconcile(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	customer := env.createCustomer(t, "thirds@example.com")
	rate := decimal.RequireFromString("0.33333")

	var last *usecase.CreditResult
	for i := 0; i < 2; i++ {
		res, err := env.wallets.CreditWallet(ctx, usecase.CreditWalletInput{
			CustomerID:   customer.ID,
			Amount:       decimal.NewFromInt(1),
			Currency:     "USD",
			ExchangeRate: &rate,
			Reason:       "Top up",
		})
		require.NoError(t, err)
		last = res
	}

	assert.True(t, last.Wallet.Balance().Amount().Equal(decimal.RequireFromString("0.6666")), "got %s", last.Wallet.Balance().Amount())

	history, err := env.wallets.GetTransactionHistory(ctx, usecase.GetTransactionHistoryInput{CustomerID: customer.ID})
	require.NoError(t, err)
	sum := decimal.Zero
	for _, tx := range history {
		sum = sum.Add(tx.SignedAmount())
	}
	assert.True(t, sum.Equal(last.Wallet.Balance().Amount()), "transactions %s, balance %s", sum, last.Wallet.Balance().Amount())
}

func TestWalletUseCase_CreditWalletValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	customer := env.createCustomer(t, "invalid@example.com")
	negativeRate := decimal.NewFromInt(-1)
	tinyRate := decimal.RequireFromString("0.1")

	tests := []struct {
		name        string
		input       usecase.CreditWalletInput
		expectError error
	}{
		{
			name:        "zero amount",
			input:       usecase.CreditWalletInput{CustomerID: customer.ID, Amount: decimal.Zero, Reason: "x"},
			expectError: domain.ErrInvalidAmount,
		},
		{
			name:        "negative amount",
			input:       usecase.CreditWalletInput{CustomerID: customer.ID, Amount: decimal.NewFromInt(-5), Reason: "x"},
			expectError: domain.ErrInvalidAmount,
		},
		{
			name:        "blank reason",
			input:       usecase.CreditWalletInput{CustomerID: customer.ID, Amount: decimal.NewFromInt(5), Reason: "  "},
			expectError: domain.ErrValidation,
		},
		{
			name:        "unsupported currency",
			input:       usecase.CreditWalletInput{CustomerID: customer.ID, Amount: decimal.NewFromInt(5), Currency: "XYZ", Reason: "x"},
			expectError: domain.ErrValidation,
		},
		{
			name:        "negative rate",
			input:       usecase.CreditWalletInput{CustomerID: customer.ID, Amount: decimal.NewFromInt(5), Currency: "GBP", ExchangeRate: &negativeRate, Reason: "x"},
			expectError: domain.ErrValidation,
		},
		{
			name:        "more decimals than stored",
			input:       usecase.CreditWalletInput{CustomerID: customer.ID, Amount: decimal.RequireFromString("10.12345"), Reason: "x"},
			expectError: domain.ErrInvalidAmount,
		},
		{
			name:        "converts below smallest unit",
			input:       usecase.CreditWalletInput{CustomerID: customer.ID, Amount: decimal.RequireFromString("0.0001"), Currency: "JPY", ExchangeRate: &tinyRate, Reason: "x"},
			expectError: domain.ErrInvalidAmount,
		},
		{
			name:        "unknown customer",
			input:       usecase.CreditWalletInput{CustomerID: "nobody", Amount: decimal.NewFromInt(5), Reason: "x"},
			expectError: domain.ErrCustomerNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.wallets.CreditWallet(ctx, tt.input)
			assert.ErrorIs(t, err, tt.expectError)
		})
	}

	history, err := env.wallets.GetTransactionHistory(ctx, usecase.GetTransactionHistoryInput{CustomerID: customer.ID})
	require.NoError(t, err)
	assert.Empty(t, history)
}
