// Package config loads process configuration from the environment, with
// an optional .env file for local development.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Backend names accepted in LINGUA_BACKEND.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// Config holds every tunable the process reads from its environment.
type Config struct {
	// Backend selects the record store: sqlite (default) or redis.
	Backend string `env:"LINGUA_BACKEND" envDefault:"sqlite"`

	// DBPath overrides the SQLite database location. Empty falls back
	// to the XDG data directory.
	DBPath string `env:"LINGUA_DB"`

	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load reads .env if present, then parses the environment.
func Load() (*Config, error) {
	// A missing .env is fine; the environment wins either way.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if cfg.Backend != BackendSQLite && cfg.Backend != BackendRedis {
		return nil, fmt.Errorf("unknown backend %q (want %s or %s)", cfg.Backend, BackendSQLite, BackendRedis)
	}
	return cfg, nil
}
