package apiclient

import (
	"context"

	"github.com/alvinseyidov/acteezer-web/internal/domain"
)

// LookupService exposes the shared reference lists used by the
// onboarding forms.
type LookupService struct {
	client *Client
}

func NewLookupService(client *Client) *LookupService {
	return &LookupService{client: client}
}

// Languages lists the selectable spoken languages.
func (s *LookupService) Languages(ctx context.Context) ([]domain.Language, error) {
	return getList[domain.Language](ctx, s.client, "/accounts/languages/", nil)
}

// Interests lists the selectable interest tags.
func (s *LookupService) Interests(ctx context.Context) ([]domain.Interest, error) {
	return getList[domain.Interest](ctx, s.client, "/accounts/interests/", nil)
}
