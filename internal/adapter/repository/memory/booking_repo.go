package memory

import (
	"context"
	"fmt"

	"github.com/iho/gohotel/internal/domain"
	"github.com/iho/gohotel/internal/usecase"
)

// BookingRepository implements usecase.BookingRepository.
type BookingRepository struct {
	store *Store
}

// NewBookingRepository creates a new BookingRepository.
func NewBookingRepository(store *Store) *BookingRepository {
	return &BookingRepository{store: store}
}

// Create stages a new booking.
func (r *BookingRepository) Create(ctx context.Context, tx usecase.Transaction, booking *domain.Booking) error {
	mt, err := asTx(tx)
	if err != nil {
		return err
	}
	if _, err := r.lookup(mt, booking.ID); err == nil {
		return fmt.Errorf("%w: booking %s already exists", domain.ErrValidation, booking.ID)
	}

	mt.bookings[booking.ID] = booking.Clone()
	mt.newBookings = append(mt.newBookings, booking.ID)
	return nil
}

// GetByID retrieves a committed booking.
func (r *BookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	b, ok := r.store.bookings[id]
	if !ok {
		return nil, domain.ErrBookingNotFound
	}
	return b.Clone(), nil
}

// GetByIDForUpdate retrieves a booking as seen by the transaction.
func (r *BookingRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Booking, error) {
	mt, err := asTx(tx)
	if err != nil {
		return nil, err
	}
	return r.lookup(mt, id)
}

// Save stages the booking if nobody saved it since it was loaded.
func (r *BookingRepository) Save(ctx context.Context, tx usecase.Transaction, booking *domain.Booking) error {
	mt, err := asTx(tx)
	if err != nil {
		return err
	}

	current, err := r.lookup(mt, booking.ID)
	if err != nil {
		return err
	}
	if current.Version != booking.Version {
		return fmt.Errorf("%w: booking %s", domain.ErrConcurrentModification, booking.ID)
	}

	saved := booking.Clone()
	saved.Version++
	mt.bookings[booking.ID] = saved
	return nil
}

// List lists bookings in creation order.
func (r *BookingRepository) List(ctx context.Context, filter usecase.BookingFilter, limit, offset int) ([]*domain.Booking, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	matched := make([]*domain.Booking, 0)
	for _, id := range r.store.bookingOrder {
		b := r.store.bookings[id]
		if filter.CustomerID != "" && b.CustomerID != filter.CustomerID {
			continue
		}
		if filter.Status != "" && b.Status() != filter.Status {
			continue
		}
		matched = append(matched, b.Clone())
	}
	return page(matched, limit, offset), nil
}

func (r *BookingRepository) lookup(mt *Tx, id string) (*domain.Booking, error) {
	if b, ok := mt.bookings[id]; ok {
		return b.Clone(), nil
	}
	return r.GetByID(context.Background(), id)
}
