package memory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/iho/gohotel/internal/domain"
	"github.com/iho/gohotel/internal/usecase"
)

// LedgerRepository implements usecase.LedgerRepository.
type LedgerRepository struct {
	store *Store
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(store *Store) *LedgerRepository {
	return &LedgerRepository{store: store}
}

// WalletBalances returns the stored and recomputed balance of every wallet.
func (r *LedgerRepository) WalletBalances(ctx context.Context) ([]usecase.WalletBalance, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	balances := make([]usecase.WalletBalance, 0, len(r.store.wallets))
	for _, w := range r.store.wallets {
		sum := decimal.Zero
		for _, tx := range w.Transactions() {
			sum = sum.Add(tx.SignedAmount())
		}
		balances = append(balances, usecase.WalletBalance{
			WalletID:          w.ID,
			CustomerID:        w.CustomerID,
			RecordedBalance:   w.Balance().Amount(),
			CalculatedBalance: sum,
		})
	}
	sort.Slice(balances, func(i, j int) bool { return balances[i].WalletID < balances[j].WalletID })

	return balances, nil
}

// Stats aggregates hotel-wide counters.
func (r *LedgerRepository) Stats(ctx context.Context) (*usecase.Stats, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	stats := &usecase.Stats{
		Customers:          len(r.store.customers),
		Wallets:            len(r.store.wallets),
		TotalWalletBalance: decimal.Zero,
		BookingsByStatus:   make(map[domain.BookingStatus]int),
		Revenue:            decimal.Zero,
	}

	for _, c := range r.store.customers {
		if c.IsActive() {
			stats.ActiveCustomers++
		}
	}
	for _, w := range r.store.wallets {
		stats.TotalWalletBalance = stats.TotalWalletBalance.Add(w.Balance().Amount())
	}
	for _, b := range r.store.bookings {
		stats.BookingsByStatus[b.Status()]++
		stats.Revenue = stats.Revenue.Add(b.TotalPaid().Amount())
	}

	return stats, nil
}
