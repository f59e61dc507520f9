package event

import (
	"context"
	"sort"
	"time"
)

type (
	Repository interface {
		QueryEvents(ctx context.Context) ([]Event, error)
		CreateEvent(ctx context.Context, e Event) (Event, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ForAudience returns the events addressed to audience, earliest start first.
// An empty (unknown) audience matches no event.
func (svc *Service) ForAudience(ctx context.Context, audience string) ([]Event, error) {
	events, err := svc.repo.QueryEvents(ctx)
	if err != nil {
		return nil, err
	}
	list := make([]Event, 0, len(events))
	for _, e := range events {
		if audience != "" && e.IsFor(audience) {
			list = append(list, e)
		}
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].StartTime.Before(list[j].StartTime) })
	return list, nil
}

func (svc *Service) Create(ctx context.Context, createdBy int, ne NewEvent) (Event, error) {
	return svc.repo.CreateEvent(ctx, Event{
		Title:       ne.Title,
		Description: ne.Description,
		Location:    ne.Location,
		StartTime:   ne.StartTime.UTC(),
		EndTime:     ne.EndTime.UTC(),
		Type:        ne.Type,
		CreatedBy:   createdBy,
		CreatedAt:   time.Now().UTC(),
		Audience:    ne.Audience,
	})
}
