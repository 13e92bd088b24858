package memory

import (
	"context"
	"fmt"

	"github.com/iho/gohotel/internal/domain"
	"github.com/iho/gohotel/internal/usecase"
)

// CustomerRepository implements usecase.CustomerRepository.
type CustomerRepository struct {
	store *Store
}

// NewCustomerRepository creates a new CustomerRepository.
func NewCustomerRepository(store *Store) *CustomerRepository {
	return &CustomerRepository{store: store}
}

// Create stages a new customer. Emails are unique.
func (r *CustomerRepository) Create(ctx context.Context, tx usecase.Transaction, customer *domain.Customer) error {
	mt, err := asTx(tx)
	if err != nil {
		return err
	}

	if _, err := r.lookup(mt, customer.ID); err == nil {
		return fmt.Errorf("%w: customer %s already exists", domain.ErrValidation, customer.ID)
	}
	if existing, err := r.GetByEmail(ctx, customer.Email); err == nil && existing.ID != customer.ID {
		return domain.ErrEmailAlreadyUsed
	}

	c := *customer
	mt.customers[c.ID] = &c
	mt.newCustomers = append(mt.newCustomers, c.ID)
	return nil
}

// GetByID retrieves a committed customer.
func (r *CustomerRepository) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	c, ok := r.store.customers[id]
	if !ok {
		return nil, domain.ErrCustomerNotFound
	}
	cp := *c
	return &cp, nil
}

// GetByIDForUpdate retrieves a customer as seen by the transaction.
func (r *CustomerRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Customer, error) {
	mt, err := asTx(tx)
	if err != nil {
		return nil, err
	}
	return r.lookup(mt, id)
}

// GetByEmail finds a committed customer by normalized email.
func (r *CustomerRepository) GetByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, c := range r.store.customers {
		if c.Email == email {
			cp := *c
			return &cp, nil
		}
	}
	return nil, domain.ErrCustomerNotFound
}

// Update stages the new customer state.
func (r *CustomerRepository) Update(ctx context.Context, tx usecase.Transaction, customer *domain.Customer) error {
	mt, err := asTx(tx)
	if err != nil {
		return err
	}
	if _, err := r.lookup(mt, customer.ID); err != nil {
		return err
	}
	if existing, err := r.GetByEmail(ctx, customer.Email); err == nil && existing.ID != customer.ID {
		return domain.ErrEmailAlreadyUsed
	}

	c := *customer
	mt.customers[c.ID] = &c
	return nil
}

// List lists customers in creation order.
func (r *CustomerRepository) List(ctx context.Context, limit, offset int) ([]*domain.Customer, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	all := make([]*domain.Customer, 0, len(r.store.customerOrder))
	for _, id := range r.store.customerOrder {
		cp := *r.store.customers[id]
		all = append(all, &cp)
	}
	return page(all, limit, offset), nil
}

func (r *CustomerRepository) lookup(mt *Tx, id string) (*domain.Customer, error) {
	if c, ok := mt.customers[id]; ok {
		cp := *c
		return &cp, nil
	}
	return r.GetByID(context.Background(), id)
}
