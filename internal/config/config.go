// Package config loads process configuration from the environment.
package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
)

// Store backends.
const (
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Config holds everything the server process needs.
type Config struct {
	// MasterID is the identity granted the master role. Required.
	MasterID string `env:"MASTER_ID,required"`

	StoreBackend string        `env:"STORE_BACKEND" envDefault:"redis"`
	StoreTimeout time.Duration `env:"STORE_TIMEOUT" envDefault:"5s"`

	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	InviteLinkBase string `env:"INVITE_LINK_BASE"`

	HTTPAddr string     `env:"HTTP_ADDR" envDefault:":8080"`
	LogLevel slog.Level `env:"LOG_LEVEL" envDefault:"info"`
}

// Load reads and validates configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	switch cfg.StoreBackend {
	case BackendRedis, BackendMemory:
	default:
		return Config{}, fmt.Errorf("unknown STORE_BACKEND %q (want %q or %q)", cfg.StoreBackend, BackendRedis, BackendMemory)
	}
	if cfg.StoreTimeout <= 0 {
		return Config{}, fmt.Errorf("STORE_TIMEOUT must be positive, got %s", cfg.StoreTimeout)
	}
	return cfg, nil
}
