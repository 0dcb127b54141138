// Package app assembles the web front-end and manages its lifecycle.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/alvinseyidov/acteezer-web/internal/apiclient"
	"github.com/alvinseyidov/acteezer-web/internal/config"
	"github.com/alvinseyidov/acteezer-web/internal/feed"
	"github.com/alvinseyidov/acteezer-web/internal/handler"
	"github.com/alvinseyidov/acteezer-web/internal/session"
	"github.com/alvinseyidov/acteezer-web/internal/view"
	"github.com/alvinseyidov/acteezer-web/pkg/health"
	"github.com/alvinseyidov/acteezer-web/pkg/httpclient"
	"github.com/alvinseyidov/acteezer-web/pkg/tracing"
)

const serviceName = "acteezer-web"

// App is the assembled service: the HTTP server plus everything that
// needs an orderly shutdown.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	server         *http.Server
	redisClient    *redis.Client
	shutdownTracer func(context.Context) error
}

// New wires the whole service from configuration.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	shutdownTracer, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName:  serviceName,
		Environment:  cfg.Environment,
		OTLPEndpoint: cfg.TracingEndpoint,
		SampleRate:   cfg.TracingSampleRate,
		Enabled:      cfg.TracingEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	sessions := session.NewStore(redisClient, cfg.SessionTTL)
	cookies := session.NewCookieCodec(cfg.SessionSecret, cfg.SessionTTL, cfg.SecureCookies)

	httpClient := httpclient.New(httpclient.Config{
		Timeout:         cfg.APITimeout,
		MaxConnsPerHost: 100,
	})
	cbCfg := httpclient.DefaultCircuitBreakerConfig(serviceName + "-upstream")
	cbCfg.MinRequests = cfg.CircuitBreakerMinRequests
	cbCfg.Timeout = cfg.CircuitBreakerTimeout
	breaker := httpclient.NewCircuitBreakerClient(httpClient, cbCfg, logger)

	api := apiclient.New(cfg.APIBaseURL, breaker)
	activities := apiclient.NewActivityService(api)
	places := apiclient.NewPlaceService(api)
	auth := apiclient.NewAuthService(api, sessions, logger)
	lookups := apiclient.NewLookupService(api)
	feedSvc := feed.NewService(activities, places, logger)

	renderer, err := view.New(logger)
	if err != nil {
		return nil, fmt.Errorf("init renderer: %w", err)
	}

	healthHandler := health.NewHandler()
	healthHandler.Register("redis", func(ctx context.Context) error {
		return sessions.Ping(ctx)
	})
	// the API being down degrades pages but the front-end still serves
	healthHandler.RegisterNonCritical("acteezer-api", upstreamCheck(httpClient, cfg.APIBaseURL))

	h := handler.New(renderer, feedSvc, activities, places, auth, lookups, sessions, cookies, logger)
	routes := h.Routes(handler.RouterConfig{
		ServiceName:    serviceName,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
	}, healthHandler)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           routes,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	return &App{
		cfg:            cfg,
		logger:         logger,
		server:         server,
		redisClient:    redisClient,
		shutdownTracer: shutdownTracer,
	}, nil
}

func upstreamCheck(client *httpclient.Client, baseURL string) health.Checker {
	return func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/activities/categories/", nil)
		if err != nil {
			return err
		}
		resp, err := client.Do(ctx, req)
		if err != nil {
			return err
		}
		resp.Body.Close()
		if resp.StatusCode >= 500 {
			return fmt.Errorf("upstream returned %d", resp.StatusCode)
		}
		return nil
	}
}

// Run serves until the context is cancelled, then drains.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("server listening",
			slog.String("addr", a.server.Addr),
			slog.String("environment", a.cfg.Environment))
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
		return a.shutdown()
	}
}

// shutdown drains in dependency order: stop accepting requests, flush
// traces, then drop the Redis connection.
func (a *App) shutdown() error {
	a.logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		a.logger.Error("server shutdown failed", slog.String("error", err.Error()))
	}
	if err := a.shutdownTracer(ctx); err != nil {
		a.logger.Error("tracer shutdown failed", slog.String("error", err.Error()))
	}
	if err := a.redisClient.Close(); err != nil {
		a.logger.Error("redis close failed", slog.String("error", err.Error()))
	}

	a.logger.Info("shutdown complete")
	return nil
}
