package memory

import (
	"context"
	"fmt"

	"github.com/iho/gohotel/internal/domain"
	"github.com/iho/gohotel/internal/usecase"
)

// WalletRepository implements usecase.WalletRepository.
type WalletRepository struct {
	store *Store
}

// NewWalletRepository creates a new WalletRepository.
func NewWalletRepository(store *Store) *WalletRepository {
	return &WalletRepository{store: store}
}

// Create stages a new wallet. A customer owns at most one.
func (r *WalletRepository) Create(ctx context.Context, tx usecase.Transaction, wallet *domain.Wallet) error {
	mt, err := asTx(tx)
	if err != nil {
		return err
	}
	if _, err := r.lookup(mt, wallet.CustomerID); err == nil {
		return fmt.Errorf("%w: wallet for customer %s already exists", domain.ErrConcurrentModification, wallet.CustomerID)
	}

	wallet.MarkSaved()
	mt.wallets[wallet.CustomerID] = wallet.Clone()
	return nil
}

// GetByCustomerID retrieves a committed wallet.
func (r *WalletRepository) GetByCustomerID(ctx context.Context, customerID string) (*domain.Wallet, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	w, ok := r.store.wallets[customerID]
	if !ok {
		return nil, domain.ErrWalletNotFound
	}
	return w.Clone(), nil
}

// GetByCustomerIDForUpdate retrieves a wallet as seen by the transaction.
func (r *WalletRepository) GetByCustomerIDForUpdate(ctx context.Context, tx usecase.Transaction, customerID string) (*domain.Wallet, error) {
	mt, err := asTx(tx)
	if err != nil {
		return nil, err
	}
	return r.lookup(mt, customerID)
}

// Save stages the wallet if nobody saved it since it was loaded.
func (r *WalletRepository) Save(ctx context.Context, tx usecase.Transaction, wallet *domain.Wallet) error {
	mt, err := asTx(tx)
	if err != nil {
		return err
	}

	current, err := r.lookup(mt, wallet.CustomerID)
	if err != nil {
		return err
	}
	if current.Version != wallet.Version || current.ID != wallet.ID {
		return fmt.Errorf("%w: wallet %s", domain.ErrConcurrentModification, wallet.ID)
	}

	wallet.MarkSaved()
	saved := wallet.Clone()
	saved.Version++
	mt.wallets[wallet.CustomerID] = saved
	return nil
}

// ListTransactions lists a wallet's transactions newest first.
func (r *WalletRepository) ListTransactions(ctx context.Context, walletID string, limit, offset int) ([]*domain.Transaction, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, w := range r.store.wallets {
		if w.ID == walletID {
			return page(w.TransactionHistory(), limit, offset), nil
		}
	}
	return nil, domain.ErrWalletNotFound
}

func (r *WalletRepository) lookup(mt *Tx, customerID string) (*domain.Wallet, error) {
	if w, ok := mt.wallets[customerID]; ok {
		return w.Clone(), nil
	}
	return r.GetByCustomerID(context.Background(), customerID)
}
