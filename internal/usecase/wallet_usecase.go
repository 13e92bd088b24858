package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/gohotel/internal/domain"
	"github.com/iho/gohotel/internal/infrastructure/metrics"
)

// WalletUseCase handles customer wallets.
type WalletUseCase struct {
	txManager    TransactionManager
	customerRepo CustomerRepository
	walletRepo   WalletRepository
	journal      journal
	idGen        IDGenerator
	retrier      Retrier
	metrics      *metrics.Metrics
	logger       zerolog.Logger
}

// NewWalletUseCase creates a new WalletUseCase.
func NewWalletUseCase(
	txManager TransactionManager,
	customerRepo CustomerRepository,
	walletRepo WalletRepository,
	outboxRepo OutboxRepository,
	auditRepo AuditRepository,
	idGen IDGenerator,
	retrier Retrier,
	metrics *metrics.Metrics,
	logger zerolog.Logger,
) *WalletUseCase {
	return &WalletUseCase{
		txManager:    txManager,
		customerRepo: customerRepo,
		walletRepo:   walletRepo,
		journal:      journal{outboxRepo: outboxRepo, auditRepo: auditRepo, idGen: idGen},
		idGen:        idGen,
		retrier:      retrier,
		metrics:      metrics,
		logger:       logger.With().Str("component", "wallet_usecase").Logger(),
	}
}

// GetWallet returns the customer's wallet, creating an empty one on first access.
func (uc *WalletUseCase) GetWallet(ctx context.Context, customerID string) (*domain.Wallet, error) {
	if _, err := uc.customerRepo.GetByID(ctx, customerID); err != nil {
		return nil, err
	}

	wallet, err := uc.walletRepo.GetByCustomerID(ctx, customerID)
	if err == nil {
		return wallet, nil
	}
	if !errors.Is(err, domain.ErrWalletNotFound) {
		return nil, err
	}

	err = retry(ctx, uc.retrier, func() error {
		txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
		defer cancel()

		tx, err := uc.txManager.Begin(txCtx)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback(txCtx) }()

		wallet, err = ensureWallet(txCtx, tx, uc.walletRepo, uc.idGen, customerID)
		if err != nil {
			return err
		}
		return tx.Commit(txCtx)
	})
	if err != nil {
		return nil, err
	}

	return wallet, nil
}

// CreditWalletInput represents input for adding funds to a wallet.
// ExchangeRate is required when Currency is not the base currency.
type CreditWalletInput struct {
	CustomerID   string
	Amount       decimal.Decimal
	Currency     string
	ExchangeRate *decimal.Decimal
	Reason       string
}

// CreditResult is the wallet after a credit and the transaction that produced it.
type CreditResult struct {
	Wallet      *domain.Wallet
	Transaction *domain.Transaction
}

// CreditWallet adds funds to an active customer's wallet.
func (uc *WalletUseCase) CreditWallet(ctx context.Context, input CreditWalletInput) (*CreditResult, error) {
	amount, rate, err := parseCredit(input)
	if err != nil {
		return nil, err
	}
	if err := domain.ValidateReason(input.Reason); err != nil {
		return nil, err
	}

	var result *CreditResult
	err = retry(ctx, uc.retrier, func() error {
		var err error
		result, err = uc.credit(ctx, input.CustomerID, amount, rate, input.Reason)
		return err
	})
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.WalletCredits.Inc()
		uc.metrics.WalletCreditAmount.Observe(result.Transaction.Amount.Amount().InexactFloat64())
	}
	uc.logger.Info().
		Str("customer_id", input.CustomerID).
		Str("wallet_id", result.Wallet.ID).
		Str("amount", result.Transaction.Amount.String()).
		Str("balance", result.Wallet.Balance().String()).
		Msg("wallet credited")

	return result, nil
}

func (uc *WalletUseCase) credit(ctx context.Context, customerID string, amount domain.Money, rate *domain.ExchangeRate, reason string) (*CreditResult, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	customer, err := uc.customerRepo.GetByID(txCtx, customerID)
	if err != nil {
		return nil, err
	}
	if !customer.IsActive() {
		return nil, domain.ErrCustomerInactive
	}

	wallet, err := ensureWallet(txCtx, tx, uc.walletRepo, uc.idGen, customerID)
	if err != nil {
		return nil, err
	}
	before := domain.WalletSnapshot(wallet)

	transaction, err := wallet.Credit(amount, reason, rate)
	if err != nil {
		return nil, err
	}

	if err := uc.walletRepo.Save(txCtx, tx, wallet); err != nil {
		return nil, err
	}
	wallet.Version++

	if err := uc.journal.record(txCtx, tx, journalEntry{
		aggregateType: domain.AggregateTypeWallet,
		aggregateID:   wallet.ID,
		eventType:     domain.EventTypeWalletCredited,
		payload: domain.WalletCreditedEvent{
			WalletID:      wallet.ID,
			CustomerID:    customerID,
			TransactionID: transaction.ID,
			Amount:        transaction.Amount.Amount().String(),
			Currency:      string(transaction.Amount.Currency()),
			Balance:       wallet.Balance().Amount().String(),
		},
		action: domain.AuditActionWalletCredit,
		before: before,
		after:  domain.WalletSnapshot(wallet),
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	return &CreditResult{Wallet: wallet, Transaction: transaction}, nil
}

// GetTransactionHistoryInput represents input for listing wallet transactions.
type GetTransactionHistoryInput struct {
	CustomerID string
	Limit      int
	Offset     int
}

// GetTransactionHistory lists a customer's wallet transactions, newest first.
func (uc *WalletUseCase) GetTransactionHistory(ctx context.Context, input GetTransactionHistoryInput) ([]*domain.Transaction, error) {
	if _, err := uc.customerRepo.GetByID(ctx, input.CustomerID); err != nil {
		return nil, err
	}

	wallet, err := uc.walletRepo.GetByCustomerID(ctx, input.CustomerID)
	if errors.Is(err, domain.ErrWalletNotFound) {
		return []*domain.Transaction{}, nil
	}
	if err != nil {
		return nil, err
	}

	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)
	return uc.walletRepo.ListTransactions(ctx, wallet.ID, limit, offset)
}

func parseCredit(input CreditWalletInput) (domain.Money, *domain.ExchangeRate, error) {
	currency := domain.BaseCurrency
	if strings.TrimSpace(input.Currency) != "" {
		c, err := domain.ParseCurrency(input.Currency)
		if err != nil {
			return domain.Money{}, nil, err
		}
		currency = c
	}

	if !input.Amount.IsPositive() {
		return domain.Money{}, nil, domain.ErrInvalidAmount
	}
	amount, err := domain.NewMoney(input.Amount, currency)
	if err != nil {
		return domain.Money{}, nil, err
	}

	if input.ExchangeRate == nil || currency == domain.BaseCurrency {
		return amount, nil, nil
	}
	rate, err := domain.NewExchangeRate(currency, *input.ExchangeRate)
	if err != nil {
		return domain.Money{}, nil, err
	}
	return amount, &rate, nil
}
