package memory

import (
	"context"
	"time"

	"github.com/iho/gohotel/internal/domain"
	"github.com/iho/gohotel/internal/usecase"
)

// OutboxRepository implements usecase.OutboxRepository.
type OutboxRepository struct {
	store *Store
}

// NewOutboxRepository creates a new OutboxRepository.
func NewOutboxRepository(store *Store) *OutboxRepository {
	return &OutboxRepository{store: store}
}

// Create stages an event.
func (r *OutboxRepository) Create(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error {
	mt, err := asTx(tx)
	if err != nil {
		return err
	}
	e := *event
	mt.outbox = append(mt.outbox, &e)
	return nil
}

// GetUnpublished returns the oldest unpublished events.
func (r *OutboxRepository) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	events := make([]*domain.OutboxEvent, 0)
	for _, id := range r.store.outboxOrder {
		e, ok := r.store.outbox[id]
		if !ok || e.Published {
			continue
		}
		cp := *e
		events = append(events, &cp)
		if limit > 0 && len(events) == limit {
			break
		}
	}
	return events, nil
}

// MarkPublished marks an event as published.
func (r *OutboxRepository) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if e, ok := r.store.outbox[id]; ok {
		e.Published = true
		e.PublishedAt = &publishedAt
	}
	return nil
}

// GetByAggregate returns events of one aggregate in creation order.
func (r *OutboxRepository) GetByAggregate(ctx context.Context, aggregateType, aggregateID string, limit, offset int) ([]*domain.OutboxEvent, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	events := make([]*domain.OutboxEvent, 0)
	for _, id := range r.store.outboxOrder {
		e, ok := r.store.outbox[id]
		if !ok || e.AggregateType != aggregateType || e.AggregateID != aggregateID {
			continue
		}
		cp := *e
		events = append(events, &cp)
	}
	return page(events, limit, offset), nil
}

// DeletePublished deletes published events older than before.
func (r *OutboxRepository) DeletePublished(ctx context.Context, before time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	kept := r.store.outboxOrder[:0]
	for _, id := range r.store.outboxOrder {
		e := r.store.outbox[id]
		if e.Published && e.PublishedAt != nil && e.PublishedAt.Before(before) {
			delete(r.store.outbox, id)
			continue
		}
		kept = append(kept, id)
	}
	r.store.outboxOrder = kept
	return nil
}
