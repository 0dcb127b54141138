package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/alvinseyidov/acteezer-web/internal/apiclient"
	"github.com/alvinseyidov/acteezer-web/internal/domain"
	"github.com/alvinseyidov/acteezer-web/internal/view"
)

type placeListData struct {
	Places     []domain.Place
	Categories []domain.Category
	Filters    *apiclient.PlaceFilters
}

// PlaceList renders the venue browse page.
func (h *Handler) PlaceList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters := &apiclient.PlaceFilters{
		Search:   q.Get("search"),
		Category: q.Get("category"),
		District: q.Get("district"),
		Verified: q.Get("verified") == "true",
	}

	places, err := h.places.List(r.Context(), filters)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	categories, err := h.places.Categories(r.Context())
	if err != nil {
		h.logger.WarnContext(r.Context(), "place categories fetch failed",
			slog.String("error", err.Error()))
	}

	h.renderer.Render(w, http.StatusOK, "places", &view.Page{
		Title: "Places",
		User:  h.currentUser(r),
		Data: placeListData{
			Places:     places,
			Categories: categories,
			Filters:    filters,
		},
	})
}

type placeDetailData struct {
	Place     *domain.Place
	Favorited bool
}

// PlaceDetail renders one venue. Favorite status comes from its own
// endpoint, never from the place record.
func (h *Handler) PlaceDetail(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	place, err := h.places.Get(r.Context(), id)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	data := placeDetailData{Place: place}
	if h.currentUser(r) != nil {
		favorited, err := h.places.IsFavorited(r.Context(), id)
		if err != nil {
			h.logger.WarnContext(r.Context(), "favorite status fetch failed",
				slog.String("error", err.Error()))
		} else {
			data.Favorited = favorited
		}
	}

	h.renderer.Render(w, http.StatusOK, "place", &view.Page{
		Title: place.Name,
		User:  h.currentUser(r),
		Data:  data,
	})
}

// PlaceFavorite marks a place as a favorite and bounces back.
func (h *Handler) PlaceFavorite(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if err := h.places.Favorite(r.Context(), id); err != nil {
		h.renderError(w, r, err)
		return
	}
	http.Redirect(w, r, "/places/"+strconv.Itoa(id), http.StatusSeeOther)
}

// PlaceUnfavorite removes a favorite and bounces back.
func (h *Handler) PlaceUnfavorite(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if err := h.places.Unfavorite(r.Context(), id); err != nil {
		h.renderError(w, r, err)
		return
	}
	http.Redirect(w, r, "/places/"+strconv.Itoa(id), http.StatusSeeOther)
}
