package inmemdb

import (
	"context"

	"github.com/trezcool/schoolconnect/core/event"
)

type eventRepository struct {
	db *DB
}

var _ event.Repository = (*eventRepository)(nil) // interface compliance check

func NewEventRepository(db *DB) event.Repository {
	return &eventRepository{db: db}
}

func (repo *eventRepository) QueryEvents(_ context.Context) ([]event.Event, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	events := make([]event.Event, 0, len(repo.db.events))
	for _, id := range sortedKeys(repo.db.events) {
		events = append(events, *repo.db.events[id])
	}
	return events, nil
}

func (repo *eventRepository) CreateEvent(_ context.Context, e event.Event) (event.Event, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	e.ID = next(&repo.db.seq.event)
	repo.db.events[e.ID] = &e
	return e, nil
}
