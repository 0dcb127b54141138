// Package config holds the web front-end configuration, loaded from the
// environment.
package config

import (
	"fmt"
	"time"

	"github.com/alvinseyidov/acteezer-web/pkg/config"
)

type Config struct {
	Port        string `env:"PORT" envDefault:"8080"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// APIBaseURL points at the Acteezer REST API, without a trailing
	// slash.
	APIBaseURL string        `env:"API_BASE_URL" envDefault:"http://localhost:8000/api"`
	APITimeout time.Duration `env:"API_TIMEOUT" envDefault:"30s"`

	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	SessionSecret string        `env:"SESSION_SECRET"`
	SessionTTL    time.Duration `env:"SESSION_TTL" envDefault:"720h"`
	SecureCookies bool          `env:"SECURE_COOKIES" envDefault:"false"`

	RateLimitRPS   int `env:"RATE_LIMIT_RPS" envDefault:"5"`
	RateLimitBurst int `env:"RATE_LIMIT_BURST" envDefault:"10"`

	TracingEnabled    bool    `env:"TRACING_ENABLED" envDefault:"false"`
	TracingEndpoint   string  `env:"TRACING_ENDPOINT" envDefault:"localhost:4318"`
	TracingSampleRate float64 `env:"TRACING_SAMPLE_RATE" envDefault:"0.1"`

	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"15s"`

	CircuitBreakerMinRequests uint32        `env:"CB_MIN_REQUESTS" envDefault:"5"`
	CircuitBreakerTimeout     time.Duration `env:"CB_TIMEOUT" envDefault:"30s"`
}

// Load reads the configuration from the environment and validates it.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := config.Load(cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.SessionSecret == "" {
		if c.Environment == "production" {
			return fmt.Errorf("SESSION_SECRET is required in production")
		}
		c.SessionSecret = "dev-only-insecure-secret"
	}
	if c.APIBaseURL == "" {
		return fmt.Errorf("API_BASE_URL is required")
	}
	return nil
}

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
