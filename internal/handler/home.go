package handler

import (
	"net/http"

	"github.com/alvinseyidov/acteezer-web/internal/domain"
	"github.com/alvinseyidov/acteezer-web/internal/view"
)

type homeData struct {
	Activities []domain.Activity
	Places     []domain.Place
}

// Home renders the landing page. Both shelves load concurrently and a
// failed shelf renders empty.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	result := h.feed.Home(r.Context())

	h.renderer.Render(w, http.StatusOK, "home", &view.Page{
		Title: "Discover",
		User:  h.currentUser(r),
		Data: homeData{
			Activities: result.Activities,
			Places:     result.Places,
		},
	})
}
