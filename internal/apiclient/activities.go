package apiclient

import (
	"context"
	"fmt"
	"net/url"

	"github.com/alvinseyidov/acteezer-web/internal/domain"
)

// ActivityFilters narrows an activity list request. Zero-valued fields are
// omitted from the query string entirely, never sent as empty strings.
type ActivityFilters struct {
	Search     string
	Category   string
	District   string
	Date       string // "today" or "upcoming"
	Price      string // "free" or "paid"
	Difficulty string
	Sort       string // "featured", "date", "price_low", "price_high", "newest"
}

// Values serializes only the non-empty filter fields, keys verbatim.
func (f *ActivityFilters) Values() url.Values {
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
	if f.Date != "" {
		params.Set("date", f.Date)
	}
	if f.Price != "" {
		params.Set("price", f.Price)
	}
	if f.Difficulty != "" {
		params.Set("difficulty", f.Difficulty)
	}
	if f.Sort != "" {
		params.Set("sort", f.Sort)
	}
	return params
}

// ActivityService exposes the activity endpoints of the API.
type ActivityService struct {
	client *Client
}

// NewActivityService creates the activity façade over the shared client.
func NewActivityService(client *Client) *ActivityService {
	return &ActivityService{client: client}
}

// List fetches activities matching the filters.
func (s *ActivityService) List(ctx context.Context, filters *ActivityFilters) ([]domain.Activity, error) {
	return getList[domain.Activity](ctx, s.client, "/activities/activities/", filters.Values())
}

// Get fetches one activity by ID.
func (s *ActivityService) Get(ctx context.Context, id int) (*domain.Activity, error) {
	var activity domain.Activity
	if err := s.client.getJSON(ctx, fmt.Sprintf("/activities/activities/%d/", id), nil, &activity); err != nil {
		return nil, err
	}
	return &activity, nil
}

// Categories fetches the activity category lookup.
func (s *ActivityService) Categories(ctx context.Context) ([]domain.Category, error) {
	return getList[domain.Category](ctx, s.client, "/activities/categories/", nil)
}

// JoinResult is the response of a join or cancel action.
type JoinResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// Join requests participation in an activity with an optional message.
// An empty message is still sent; the join body is not a filter.
func (s *ActivityService) Join(ctx context.Context, id int, message string) (*JoinResult, error) {
	body := map[string]string{"message": message}
	var result JoinResult
	if err := s.client.postJSON(ctx, fmt.Sprintf("/activities/activities/%d/join/", id), body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CancelJoin withdraws a join request.
func (s *ActivityService) CancelJoin(ctx context.Context, id int) (*JoinResult, error) {
	var result JoinResult
	if err := s.client.postJSON(ctx, fmt.Sprintf("/activities/activities/%d/cancel_join/", id), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CanJoin checks whether the current user may join an activity.
func (s *ActivityService) CanJoin(ctx context.Context, id int) (*domain.JoinEligibility, error) {
	var eligibility domain.JoinEligibility
	if err := s.client.getJSON(ctx, fmt.Sprintf("/activities/activities/%d/can_join/", id), nil, &eligibility); err != nil {
		return nil, err
	}
	return &eligibility, nil
}

// Participants lists the accepted participants of an activity.
func (s *ActivityService) Participants(ctx context.Context, id int) ([]domain.Participant, error) {
	return getList[domain.Participant](ctx, s.client, fmt.Sprintf("/activities/activities/%d/participants/", id), nil)
}
