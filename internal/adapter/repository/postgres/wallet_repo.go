package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/gohotel/internal/domain"
	"github.com/iho/gohotel/internal/usecase"
)

const (
	walletColumns      = `id, customer_id, balance, currency, version, created_at, updated_at`
	transactionColumns = `id, wallet_id, amount, currency, type, reason, created_at, processed_at`
)

// WalletRepository implements usecase.WalletRepository.
// Wallet rows carry the balance; wallet_transactions is append-only.
type WalletRepository struct {
	db querier
}

// NewWalletRepository creates a new WalletRepository.
func NewWalletRepository(pool *pgxpool.Pool) *WalletRepository {
	return newWalletRepository(pool)
}

func newWalletRepository(db querier) *WalletRepository {
	return &WalletRepository{db: db}
}

// Create inserts a wallet and any transactions it already holds.
func (r *WalletRepository) Create(ctx context.Context, tx usecase.Transaction, wallet *domain.Wallet) error {
	q, err := pgxTx(tx)
	if err != nil {
		return err
	}

	_, err = q.Exec(ctx, `
		INSERT INTO wallets (`+walletColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		wallet.ID,
		wallet.CustomerID,
		decimalToNumeric(wallet.Balance().Amount()),
		string(wallet.Balance().Currency()),
		wallet.Version,
		timeToPgTimestamptz(wallet.CreatedAt),
		timeToPgTimestamptz(wallet.UpdatedAt),
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: wallet for customer %s already exists", domain.ErrConcurrentModification, wallet.CustomerID)
	}
	if err != nil {
		return err
	}

	return insertTransactions(ctx, q, wallet)
}

// GetByCustomerID retrieves a customer's wallet with its transactions.
func (r *WalletRepository) GetByCustomerID(ctx context.Context, customerID string) (*domain.Wallet, error) {
	return loadWallet(ctx, r.db, `SELECT `+walletColumns+` FROM wallets WHERE customer_id = $1`, customerID)
}

// GetByCustomerIDForUpdate retrieves a customer's wallet with a FOR UPDATE lock.
// The history is not loaded; the balance is checked against the stored ledger sum.
func (r *WalletRepository) GetByCustomerIDForUpdate(ctx context.Context, tx usecase.Transaction, customerID string) (*domain.Wallet, error) {
	q, err := pgxTx(tx)
	if err != nil {
		return nil, err
	}

	row, err := scanWallet(ctx, q, `SELECT `+walletColumns+` FROM wallets WHERE customer_id = $1 FOR UPDATE`, customerID)
	if err != nil {
		return nil, err
	}

	var ledger pgtype.Numeric
	err = q.QueryRow(ctx, `
		SELECT COALESCE(SUM(CASE WHEN type = 'DEBIT' THEN -amount ELSE amount END), 0)
		FROM wallet_transactions
		WHERE wallet_id = $1`,
		row.id,
	).Scan(&ledger)
	if err != nil {
		return nil, err
	}

	return domain.RestoreWalletHead(row.id, row.customerID, row.balance, numericToDecimal(ledger), row.version, row.createdAt, row.updatedAt)
}

// Save writes the balance if the stored version still matches, then appends the
// transactions added since the wallet was loaded.
func (r *WalletRepository) Save(ctx context.Context, tx usecase.Transaction, wallet *domain.Wallet) error {
	q, err := pgxTx(tx)
	if err != nil {
		return err
	}

	tag, err := q.Exec(ctx, `
		UPDATE wallets
		SET balance = $2, version = version + 1, updated_at = $3
		WHERE id = $1 AND version = $4`,
		wallet.ID,
		decimalToNumeric(wallet.Balance().Amount()),
		timeToPgTimestamptz(wallet.UpdatedAt),
		wallet.Version,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: wallet %s", domain.ErrConcurrentModification, wallet.ID)
	}

	return insertTransactions(ctx, q, wallet)
}

// ListTransactions lists a wallet's transactions newest first.
func (r *WalletRepository) ListTransactions(ctx context.Context, walletID string, limit, offset int) ([]*domain.Transaction, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+transactionColumns+`
		FROM wallet_transactions
		WHERE wallet_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`,
		walletID, limit, offset,
	)
	if err != nil {
		return nil, err
	}

	return collectTransactions(rows)
}

type walletRow struct {
	id, customerID       string
	balance              domain.Money
	version              int64
	createdAt, updatedAt time.Time
}

func scanWallet(ctx context.Context, q querier, query, customerID string) (*walletRow, error) {
	var (
		row                  walletRow
		currency             string
		balance              pgtype.Numeric
		createdAt, updatedAt pgtype.Timestamptz
	)

	err := q.QueryRow(ctx, query, customerID).Scan(&row.id, &row.customerID, &balance, &currency, &row.version, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrWalletNotFound
		}

		return nil, err
	}

	row.balance, err = numericToMoney(balance, currency)
	if err != nil {
		return nil, err
	}
	row.createdAt = createdAt.Time
	row.updatedAt = updatedAt.Time
	return &row, nil
}

func loadWallet(ctx context.Context, q querier, query, customerID string) (*domain.Wallet, error) {
	row, err := scanWallet(ctx, q, query, customerID)
	if err != nil {
		return nil, err
	}

	rows, err := q.Query(ctx, `
		SELECT `+transactionColumns+`
		FROM wallet_transactions
		WHERE wallet_id = $1
		ORDER BY created_at, id`,
		row.id,
	)
	if err != nil {
		return nil, err
	}
	transactions, err := collectTransactions(rows)
	if err != nil {
		return nil, err
	}

	return domain.RestoreWallet(row.id, row.customerID, row.balance, transactions, row.version, row.createdAt, row.updatedAt)
}

func collectTransactions(rows pgx.Rows) ([]*domain.Transaction, error) {
	defer rows.Close()

	transactions := make([]*domain.Transaction, 0)
	for rows.Next() {
		var (
			t                      domain.Transaction
			amount                 pgtype.Numeric
			currency, typ          string
			createdAt, processedAt pgtype.Timestamptz
		)
		if err := rows.Scan(&t.ID, &t.WalletID, &amount, &currency, &typ, &t.Reason, &createdAt, &processedAt); err != nil {
			return nil, err
		}

		money, err := numericToMoney(amount, currency)
		if err != nil {
			return nil, err
		}
		t.Amount = money
		t.Type = domain.TransactionType(typ)
		t.CreatedAt = createdAt.Time
		t.ProcessedAt = pgTimestamptzToTimePtr(processedAt)

		transactions = append(transactions, &t)
	}

	return transactions, rows.Err()
}

// insertTransactions appends the wallet's unsaved transactions and marks them saved.
func insertTransactions(ctx context.Context, q querier, wallet *domain.Wallet) error {
	for _, t := range wallet.UnsavedTransactions() {
		_, err := q.Exec(ctx, `
			INSERT INTO wallet_transactions (`+transactionColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			t.ID,
			t.WalletID,
			decimalToNumeric(t.Amount.Amount()),
			string(t.Amount.Currency()),
			string(t.Type),
			t.Reason,
			timeToPgTimestamptz(t.CreatedAt),
			timePtrToPgTimestamptz(t.ProcessedAt),
		)
		if err != nil {
			return err
		}
	}

	wallet.MarkSaved()
	return nil
}
