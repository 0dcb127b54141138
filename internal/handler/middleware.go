package handler

import (
	"log/slog"
	"net/http"

	"github.com/alvinseyidov/acteezer-web/internal/apiclient"
	"github.com/alvinseyidov/acteezer-web/internal/domain"
	"github.com/alvinseyidov/acteezer-web/internal/session"
)

// Session resolves the browser session on every page request. A valid
// cookie yields its session id; anything else gets a fresh id and a new
// cookie. The stored API token, when present, rides the context so the
// API client authenticates downstream calls.
func (h *Handler) Session(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sid, err := h.cookies.Decode(r)
		if err != nil || sid == "" {
			sid = session.NewID()
			cookie, err := h.cookies.Issue(sid)
			if err != nil {
				h.logger.ErrorContext(r.Context(), "issue session cookie failed",
					slog.String("error", err.Error()))
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}
			http.SetCookie(w, cookie)
		}

		ctx := session.WithID(r.Context(), sid)
		if token, err := h.sessions.Token(ctx, sid); err == nil && token != "" {
			ctx = apiclient.WithToken(ctx, token)
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// currentUser is the cached user for page chrome, or nil when signed
// out. Lookups never fail a page render.
func (h *Handler) currentUser(r *http.Request) *domain.User {
	return h.auth.StoredUser(r.Context())
}
