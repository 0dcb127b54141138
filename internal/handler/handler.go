// Package handler wires the HTTP routes of the web front-end.
package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/alvinseyidov/acteezer-web/internal/apiclient"
	"github.com/alvinseyidov/acteezer-web/internal/feed"
	"github.com/alvinseyidov/acteezer-web/internal/session"
	"github.com/alvinseyidov/acteezer-web/internal/view"
	"github.com/alvinseyidov/acteezer-web/pkg/health"
	"github.com/alvinseyidov/acteezer-web/pkg/middleware"
)

// Handler holds everything the routes need.
type Handler struct {
	renderer   *view.Renderer
	feed       *feed.Service
	activities *apiclient.ActivityService
	places     *apiclient.PlaceService
	auth       *apiclient.AuthService
	lookups    *apiclient.LookupService
	sessions   *session.Store
	cookies    *session.CookieCodec
	logger     *slog.Logger
}

func New(
	renderer *view.Renderer,
	feedSvc *feed.Service,
	activities *apiclient.ActivityService,
	places *apiclient.PlaceService,
	auth *apiclient.AuthService,
	lookups *apiclient.LookupService,
	sessions *session.Store,
	cookies *session.CookieCodec,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		renderer:   renderer,
		feed:       feedSvc,
		activities: activities,
		places:     places,
		auth:       auth,
		lookups:    lookups,
		sessions:   sessions,
		cookies:    cookies,
		logger:     logger,
	}
}

// RouterConfig tunes the middleware stack.
type RouterConfig struct {
	ServiceName    string
	RateLimitRPS   int
	RateLimitBurst int
}

// Routes assembles the router: observability middleware on everything,
// session resolution on the pages, rate limiting on the form posts.
func (h *Handler) Routes(cfg RouterConfig, healthHandler *health.Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(h.logger))
	r.Use(middleware.RequestLogging(h.logger))
	r.Use(middleware.RequestLogger(h.logger))
	r.Use(middleware.PrometheusMetrics(cfg.ServiceName))
	r.Use(middleware.Tracing(cfg.ServiceName))

	r.Get("/health", healthHandler.LivenessHandler())
	r.Get("/ready", healthHandler.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())
	r.Handle("/static/*", view.StaticHandler())

	limited := middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst, h.logger)

	r.Group(func(r chi.Router) {
		r.Use(h.Session)

		r.Get("/", h.Home)

		r.Get("/activities", h.ActivityList)
		r.Get("/activities/{id}", h.ActivityDetail)
		r.With(limited).Post("/activities/{id}/join", h.ActivityJoin)
		r.With(limited).Post("/activities/{id}/cancel", h.ActivityCancel)

		r.Get("/places", h.PlaceList)
		r.Get("/places/{id}", h.PlaceDetail)
		r.With(limited).Post("/places/{id}/favorite", h.PlaceFavorite)
		r.With(limited).Post("/places/{id}/unfavorite", h.PlaceUnfavorite)

		r.Get("/login", h.LoginForm)
		r.With(limited).Post("/login", h.Login)
		r.Post("/logout", h.Logout)

		r.Get("/onboarding/{step}", h.OnboardingForm)
		r.With(limited).Post("/onboarding/{step}", h.OnboardingSubmit)
	})

	return r
}
