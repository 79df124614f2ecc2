// Package jobs holds the operator batch tools. Every job takes its
// collaborators explicitly and is safe to re-run.
package jobs

import (
	"context"

	"github.com/Josemabaher/bargoglio-webapp-sub001/internal/domain"
)

// EventCache memoizes event lookups for the duration of one run. It is not
// safe for concurrent use.
type EventCache struct {
	repo   domain.EventRepository
	events map[int]*domain.Event
}

func NewEventCache(repo domain.EventRepository) *EventCache {
	return &EventCache{
		repo:   repo,
		events: make(map[int]*domain.Event),
	}
}

func (c *EventCache) Get(ctx context.Context, id int) (*domain.Event, error) {
	if event, ok := c.events[id]; ok {
		return event, nil
	}

	event, err := c.repo.GetById(ctx, id)
	if err != nil {
		return nil, err
	}

	c.events[id] = event

	return event, nil
}
