package badgerdb

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ArowuTest/lottery-rounds/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// eventRepository keys every event by its sequence number. Sequence numbers
// are contiguous starting at 1 because events are never deleted.
type eventRepository struct {
	store *badgerhold.Store
	lock  *sync.Mutex
}

func newEventRepository(store *badgerhold.Store) *eventRepository {
	return &eventRepository{
		store: store,
		lock:  &sync.Mutex{},
	}
}

func (r *eventRepository) Append(_ context.Context, event *models.Event) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	count, err := r.store.Count(&models.Event{}, nil)
	if err != nil {
		return err
	}
	event.Seq = count + 1
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	return r.store.Insert(event.Seq, *event)
}

func (r *eventRepository) FindAfter(_ context.Context, afterSeq uint64, limit int) ([]*models.Event, error) {
	events := make([]*models.Event, 0)
	for seq := afterSeq + 1; limit <= 0 || len(events) < limit; seq++ {
		var event models.Event
		if err := r.store.Get(seq, &event); err != nil {
			if errors.Is(err, badgerhold.ErrNotFound) {
				break
			}
			return nil, err
		}
		events = append(events, &event)
	}
	return events, nil
}
