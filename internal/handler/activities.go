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

type activityListData struct {
	Activities []domain.Activity
	Categories []domain.Category
	Filters    *apiclient.ActivityFilters
}

// ActivityList renders the browse page with the query-string filters
// passed through to the API.
func (h *Handler) ActivityList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters := &apiclient.ActivityFilters{
		Search:   q.Get("search"),
		Category: q.Get("category"),
		District: q.Get("district"),
		Date:     q.Get("date"),
		Price:    q.Get("price"),
	}

	activities, err := h.activities.List(r.Context(), filters)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	// Category load failures only cost the filter dropdown.
	categories, err := h.activities.Categories(r.Context())
	if err != nil {
		h.logger.WarnContext(r.Context(), "activity categories fetch failed",
			slog.String("error", err.Error()))
	}

	h.renderer.Render(w, http.StatusOK, "activities", &view.Page{
		Title: "Activities",
		User:  h.currentUser(r),
		Data: activityListData{
			Activities: activities,
			Categories: categories,
			Filters:    filters,
		},
	})
}

type activityDetailData struct {
	Activity     *domain.Activity
	Participants []domain.Participant
	Joined       bool
}

// ActivityDetail renders one activity with its participant list.
func (h *Handler) ActivityDetail(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	activity, err := h.activities.Get(r.Context(), id)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	data := activityDetailData{Activity: activity}

	if participants, err := h.activities.Participants(r.Context(), id); err == nil {
		data.Participants = participants
		if me := h.currentUser(r); me != nil {
			for _, p := range participants {
				if p.User != nil && p.User.ID == me.ID {
					data.Joined = true
					break
				}
			}
		}
	} else {
		h.logger.WarnContext(r.Context(), "participants fetch failed",
			slog.String("error", err.Error()))
	}

	h.renderer.Render(w, http.StatusOK, "activity", &view.Page{
		Title: activity.Title,
		User:  h.currentUser(r),
		Data:  data,
	})
}

// ActivityJoin submits a join request and bounces back to the detail
// page.
func (h *Handler) ActivityJoin(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if _, err := h.activities.Join(r.Context(), id, r.PostFormValue("message")); err != nil {
		h.renderError(w, r, err)
		return
	}
	http.Redirect(w, r, "/activities/"+strconv.Itoa(id), http.StatusSeeOther)
}

// ActivityCancel withdraws the current user's participation.
func (h *Handler) ActivityCancel(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if _, err := h.activities.CancelJoin(r.Context(), id); err != nil {
		h.renderError(w, r, err)
		return
	}
	http.Redirect(w, r, "/activities/"+strconv.Itoa(id), http.StatusSeeOther)
}
