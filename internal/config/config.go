// Package config loads service configuration from environment variables.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Backend identifies which registration store variant is active.
type Backend int

const (
	// BackendSample runs without persistence, for local development.
	BackendSample Backend = iota
	// BackendRedis uses a Redis key-value store.
	BackendRedis
	// BackendPostgres uses a PostgreSQL relational store.
	BackendPostgres
)

func (b Backend) String() string {
	switch b {
	case BackendRedis:
		return "redis"
	case BackendPostgres:
		return "postgres"
	default:
		return "sample"
	}
}

// Config holds all runtime settings. Backend selection follows
// "first configured wins": Redis, then Postgres, then sample mode.
type Config struct {
	Port string `env:"PORT" envDefault:"8080"`
	Env  string `env:"APP_ENV" envDefault:"development"`

	RedisURL    string `env:"REDIS_URL"`
	DatabaseURL string `env:"DATABASE_URL"`

	CaptchaEnabled bool   `env:"CAPTCHA_ENABLED"`
	CaptchaSecret  string `env:"CAPTCHA_SECRET"`

	SessionSecret string `env:"SESSION_SECRET" envDefault:"dev-session-secret"`
}

// Load parses the environment and validates cross-field constraints.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.CaptchaEnabled && cfg.CaptchaSecret == "" {
		return Config{}, fmt.Errorf("CAPTCHA_SECRET is required when CAPTCHA_ENABLED is set")
	}
	return cfg, nil
}

// Backend reports the store variant selected by this configuration.
func (c Config) Backend() Backend {
	switch {
	case c.RedisURL != "":
		return BackendRedis
	case c.DatabaseURL != "":
		return BackendPostgres
	default:
		return BackendSample
	}
}

// Production reports whether the service runs in a production environment.
// It controls the Secure attribute on the session cookie.
func (c Config) Production() bool {
	return c.Env == "production"
}
