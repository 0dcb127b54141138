package apiclient

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/alvinseyidov/acteezer-web/internal/domain"
)

// PlaceFilters narrows a place list request. Zero-valued fields are
// omitted from the query string entirely.
type PlaceFilters struct {
	Search    string
	Category  string
	District  string
	Price     string
	MinRating float64
	Verified  bool
	Sort      string // "featured", "rating", "name", "newest", "reviews"
}

// Values serializes only the non-empty filter fields, keys verbatim.
// Verified is a presence flag: it is sent as "true" when set and omitted
// otherwise, never sent as "false".
func (f *PlaceFilters) Values() url.Values {
	params := url.Values{}
	if f == nil {
		return params
	}
	if f.Search != "" {
		params.Set("search", f.Search)
	}
	if f.Category != "" {
		params.Set("category", f.Category)
	}
	if f.District != "" {
		params.Set("district", f.District)
	}
	if f.Price != "" {
		params.Set("price", f.Price)
	}
	if f.MinRating > 0 {
		params.Set("min_rating", strconv.FormatFloat(f.MinRating, 'f', -1, 64))
	}
	if f.Verified {
		params.Set("verified", "true")
	}
	if f.Sort != "" {
		params.Set("sort", f.Sort)
	}
	return params
}

// PlaceService exposes the place endpoints of the API.
type PlaceService struct {
	client *Client
}

// NewPlaceService creates the place façade over the shared client.
func NewPlaceService(client *Client) *PlaceService {
	return &PlaceService{client: client}
}

// List fetches places matching the filters.
func (s *PlaceService) List(ctx context.Context, filters *PlaceFilters) ([]domain.Place, error) {
	return getList[domain.Place](ctx, s.client, "/places/places/", filters.Values())
}

// Get fetches one place by ID.
func (s *PlaceService) Get(ctx context.Context, id int) (*domain.Place, error) {
	var place domain.Place
	if err := s.client.getJSON(ctx, fmt.Sprintf("/places/places/%d/", id), nil, &place); err != nil {
		return nil, err
	}
	return &place, nil
}

// Categories fetches the place category lookup.
func (s *PlaceService) Categories(ctx context.Context) ([]domain.Category, error) {
	return getList[domain.Category](ctx, s.client, "/places/categories/", nil)
}

// Favorite marks a place as a favorite of the current user.
func (s *PlaceService) Favorite(ctx context.Context, id int) error {
	return s.client.postJSON(ctx, fmt.Sprintf("/places/places/%d/favorite/", id), nil, nil)
}

// Unfavorite removes a place from the current user's favorites.
func (s *PlaceService) Unfavorite(ctx context.Context, id int) error {
	return s.client.delete(ctx, fmt.Sprintf("/places/places/%d/favorite/", id), nil)
}

// IsFavorited checks whether the current user has favorited a place.
// Favorite status is never cached on the Place entity; this check is the
// single source of truth.
func (s *PlaceService) IsFavorited(ctx context.Context, id int) (bool, error) {
	var status domain.FavoriteStatus
	if err := s.client.getJSON(ctx, fmt.Sprintf("/places/places/%d/is_favorited/", id), nil, &status); err != nil {
		return false, err
	}
	return status.IsFavorited, nil
}

// Favorites lists the current user's favorite places.
func (s *PlaceService) Favorites(ctx context.Context) ([]domain.Place, error) {
	return getList[domain.Place](ctx, s.client, "/places/favorites/", nil)
}
