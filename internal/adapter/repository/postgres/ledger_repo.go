package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/iho/gohotel/internal/domain"
	"github.com/iho/gohotel/internal/usecase"
)

// LedgerRepository implements usecase.LedgerRepository.
type LedgerRepository struct {
	db querier
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(pool *pgxpool.Pool) *LedgerRepository {
	return newLedgerRepository(pool)
}

func newLedgerRepository(db querier) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// WalletBalances returns each wallet's stored balance next to the sum of its transactions.
func (r *LedgerRepository) WalletBalances(ctx context.Context) ([]usecase.WalletBalance, error) {
	rows, err := r.db.Query(ctx, `
		SELECT w.id, w.customer_id, w.balance,
		       COALESCE(SUM(CASE WHEN t.type = 'DEBIT' THEN -t.amount ELSE t.amount END), 0)
		FROM wallets w
		LEFT JOIN wallet_transactions t ON t.wallet_id = w.id
		GROUP BY w.id, w.customer_id, w.balance
		ORDER BY w.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	balances := make([]usecase.WalletBalance, 0)
	for rows.Next() {
		var (
			b                    usecase.WalletBalance
			recorded, calculated pgtype.Numeric
		)
		if err := rows.Scan(&b.WalletID, &b.CustomerID, &recorded, &calculated); err != nil {
			return nil, err
		}

		b.RecordedBalance, err = toDecimal(recorded)
		if err != nil {
			return nil, err
		}
		b.CalculatedBalance, err = toDecimal(calculated)
		if err != nil {
			return nil, err
		}

		balances = append(balances, b)
	}

	return balances, rows.Err()
}

// Stats aggregates hotel-wide counters.
func (r *LedgerRepository) Stats(ctx context.Context) (*usecase.Stats, error) {
	stats := &usecase.Stats{
		BookingsByStatus: make(map[domain.BookingStatus]int),
	}

	var totalBalance, revenue pgtype.Numeric
	err := r.db.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM customers),
			(SELECT COUNT(*) FROM customers WHERE status = 'ACTIVE'),
			(SELECT COUNT(*) FROM wallets),
			(SELECT COALESCE(SUM(balance), 0) FROM wallets),
			(SELECT COALESCE(SUM(amount), 0) FROM booking_payments WHERE is_processed)`,
	).Scan(&stats.Customers, &stats.ActiveCustomers, &stats.Wallets, &totalBalance, &revenue)
	if err != nil {
		return nil, err
	}

	if stats.TotalWalletBalance, err = toDecimal(totalBalance); err != nil {
		return nil, err
	}
	if stats.Revenue, err = toDecimal(revenue); err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, `SELECT status, COUNT(*) FROM bookings GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			status string
			count  int
		)
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats.BookingsByStatus[domain.BookingStatus(status)] = count
	}

	return stats, rows.Err()
}

func toDecimal(n pgtype.Numeric) (decimal.Decimal, error) {
	if !n.Valid {
		return decimal.Zero, nil
	}

	d, err := decimal.NewFromString(n.Int.String())
	if err != nil {
		return decimal.Zero, err
	}

	if n.Exp != 0 {
		d = d.Shift(n.Exp)
	}

	return d, nil
}
