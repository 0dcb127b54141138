// Package feed assembles the home screen: featured activities and places
// fetched concurrently from the API and trimmed to a fixed shelf size.
package feed

import (
	"context"
	"log/slog"
	"sync"

	"github.com/alvinseyidov/acteezer-web/internal/apiclient"
	"github.com/alvinseyidov/acteezer-web/internal/domain"
)

// FeaturedLimit caps how many items each home shelf shows.
const FeaturedLimit = 5

// ActivityLister is the slice of the activity API the feed needs.
type ActivityLister interface {
	List(ctx context.Context, filters *apiclient.ActivityFilters) ([]domain.Activity, error)
}

// PlaceLister is the slice of the place API the feed needs.
type PlaceLister interface {
	List(ctx context.Context, filters *apiclient.PlaceFilters) ([]domain.Place, error)
}

// Home is the assembled home screen payload.
type Home struct {
	Activities []domain.Activity
	Places     []domain.Place
}

// Service builds home screens.
type Service struct {
	activities ActivityLister
	places     PlaceLister
	logger     *slog.Logger
}

func NewService(activities ActivityLister, places PlaceLister, logger *slog.Logger) *Service {
	return &Service{activities: activities, places: places, logger: logger}
}

// Home fetches both shelves concurrently. A failed fetch degrades to an
// empty shelf rather than failing the whole screen; the error is logged
// and the page renders with what arrived.
func (s *Service) Home(ctx context.Context) *Home {
	home := &Home{}

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		activities, err := s.activities.List(ctx, &apiclient.ActivityFilters{Sort: "featured"})
		if err != nil {
			s.logger.ErrorContext(ctx, "featured activities fetch failed", slog.String("error", err.Error()))
			return
		}
		home.Activities = truncate(activities, FeaturedLimit)
	}()

	go func() {
		defer wg.Done()
		places, err := s.places.List(ctx, &apiclient.PlaceFilters{Sort: "featured"})
		if err != nil {
			s.logger.ErrorContext(ctx, "featured places fetch failed", slog.String("error", err.Error()))
			return
		}
		home.Places = truncate(places, FeaturedLimit)
	}()

	wg.Wait()
	return home
}

func truncate[T any](items []T, limit int) []T {
	if len(items) > limit {
		return items[:limit]
	}
	return items
}
