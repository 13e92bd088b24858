// Package memory keeps every aggregate in process memory. Units of work run one at a
// time and their writes become visible only on Commit.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/iho/gohotel/internal/domain"
	"github.com/iho/gohotel/internal/usecase"
)

// ErrTxDone is returned when a finished transaction is used again.
var ErrTxDone = errors.New("memory: transaction already committed or rolled back")

// Store holds committed state.
type Store struct {
	sem chan struct{}

	mu            sync.RWMutex
	customers     map[string]*domain.Customer
	customerOrder []string
	wallets       map[string]*domain.Wallet // by customer id
	bookings      map[string]*domain.Booking
	bookingOrder  []string
	outbox        map[string]*domain.OutboxEvent
	outboxOrder   []string
	audit         []*domain.AuditLog
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		sem:       make(chan struct{}, 1),
		customers: make(map[string]*domain.Customer),
		wallets:   make(map[string]*domain.Wallet),
		bookings:  make(map[string]*domain.Booking),
		outbox:    make(map[string]*domain.OutboxEvent),
	}
}

// TxManager implements usecase.TransactionManager.
type TxManager struct {
	store *Store
}

// NewTxManager creates a new TxManager.
func NewTxManager(store *Store) *TxManager {
	return &TxManager{store: store}
}

// Begin waits for any running unit of work to finish and starts a new one.
func (m *TxManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	select {
	case m.store.sem <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	return &Tx{
		store:     m.store,
		customers: make(map[string]*domain.Customer),
		wallets:   make(map[string]*domain.Wallet),
		bookings:  make(map[string]*domain.Booking),
	}, nil
}

// Tx stages writes until Commit.
type Tx struct {
	store *Store
	done  bool

	customers    map[string]*domain.Customer
	newCustomers []string
	wallets      map[string]*domain.Wallet
	bookings     map[string]*domain.Booking
	newBookings  []string
	outbox       []*domain.OutboxEvent
	audit        []*domain.AuditLog
}

// Commit publishes staged writes.
func (t *Tx) Commit(ctx context.Context) error {
	if t.done {
		return ErrTxDone
	}
	defer t.finish()

	s := t.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, c := range t.customers {
		s.customers[id] = c
	}
	s.customerOrder = append(s.customerOrder, t.newCustomers...)
	for customerID, w := range t.wallets {
		s.wallets[customerID] = w
	}
	for id, b := range t.bookings {
		s.bookings[id] = b
	}
	s.bookingOrder = append(s.bookingOrder, t.newBookings...)
	for _, e := range t.outbox {
		s.outbox[e.ID] = e
		s.outboxOrder = append(s.outboxOrder, e.ID)
	}
	s.audit = append(s.audit, t.audit...)

	return nil
}

// Rollback drops staged writes. It is a no-op after Commit.
func (t *Tx) Rollback(ctx context.Context) error {
	if t.done {
		return nil
	}
	t.finish()
	return nil
}

func (t *Tx) finish() {
	t.done = true
	<-t.store.sem
}

func asTx(tx usecase.Transaction) (*Tx, error) {
	mt, ok := tx.(*Tx)
	if !ok {
		return nil, fmt.Errorf("memory: unexpected transaction type %T", tx)
	}
	if mt.done {
		return nil, ErrTxDone
	}
	return mt, nil
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if limit <= 0 || end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}
