package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/alvinseyidov/acteezer-web/internal/view"
	apperrors "github.com/alvinseyidov/acteezer-web/pkg/errors"
)

type errorData struct {
	Heading string
	Detail  string
}

// renderError maps an API failure to a friendly error page. Auth
// failures redirect to login instead of rendering.
func (h *Handler) renderError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, apperrors.ErrAuth) {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	h.logger.ErrorContext(r.Context(), "page render failed", slog.String("error", err.Error()))

	status := http.StatusBadGateway
	data := errorData{
		Heading: "Something went wrong",
		Detail:  "We couldn't reach Acteezer right now. Please try again in a moment.",
	}
	switch {
	case errors.Is(err, apperrors.ErrNetwork):
		// keep defaults
	case errors.Is(err, apperrors.ErrValidation):
		if apperrors.Status(err) == http.StatusNotFound {
			status = http.StatusNotFound
			data.Heading = "Not found"
			data.Detail = "That page doesn't exist or has been removed."
		} else {
			status = http.StatusBadRequest
			data.Heading = "That didn't work"
			data.Detail = "The request couldn't be processed. Check your input and try again."
		}
	case errors.Is(err, apperrors.ErrServer):
		// keep defaults
	}

	h.renderer.Render(w, status, "error", &view.Page{
		Title: data.Heading,
		User:  h.currentUser(r),
		Data:  data,
	})
}
