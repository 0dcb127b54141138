// Package config parses environment variables into tagged structs.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
)

// Load fills cfg from the process environment using `env` struct tags.
// Required variables fail the load; the rest fall back to envDefault.
//
// Example:
//
//	type Config struct {
//	    APIBaseURL string `env:"API_BASE_URL,required"`
//	    HTTPPort   int    `env:"HTTP_PORT" envDefault:"8080"`
//	}
func Load(cfg any) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}
