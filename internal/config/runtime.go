// Package config provides centralized configuration for Foqos runtime values.
package config

import (
	"os"
	"strconv"
	"time"
)

// RuntimeConfig holds all runtime configuration values.
type RuntimeConfig struct {
	// Engine configuration
	Engine EngineConfig

	// HTTP client configuration for the remote profile store
	HTTP HTTPConfig

	// Scheduler configuration
	Scheduler SchedulerConfig
}

// EngineConfig holds session engine configuration.
type EngineConfig struct {
	// TickInterval is how often elapsed time is republished to observers.
	// Default: 1s
	TickInterval time.Duration

	// GhostThreshold is the age past which an open session is force-closed
	// by reconciliation.
	// Default: 24h
	GhostThreshold time.Duration
}

// HTTPConfig holds HTTP client configuration.
type HTTPConfig struct {
	// BaseURL is the remote profile API endpoint.
	BaseURL string

	// Timeout is the default HTTP request timeout.
	// Default: 30s
	Timeout time.Duration

	// MaxRetries is the maximum number of retry attempts.
	// Default: 3
	MaxRetries int

	// RetryDelays are the delays between retry attempts.
	// Default: [0s, 5s, 30s]
	RetryDelays []time.Duration
}

// SchedulerConfig holds daemon scheduling configuration.
type SchedulerConfig struct {
	// ReconcileSpec is the cron spec (with seconds) for periodic ghost
	// session reconciliation.
	// Default: every 5 minutes
	ReconcileSpec string
}

// DefaultRuntimeConfig returns the default runtime configuration.
func DefaultRuntimeConfig() *RuntimeConfig {
	return &RuntimeConfig{
		Engine: EngineConfig{
			TickInterval:   time.Second,
			GhostThreshold: 24 * time.Hour,
		},
		HTTP: HTTPConfig{
			Timeout:    30 * time.Second,
			MaxRetries: 3,
			RetryDelays: []time.Duration{
				0,                // Immediate first attempt
				5 * time.Second,  // Retry after 5s
				30 * time.Second, // Retry after 30s
			},
		},
		Scheduler: SchedulerConfig{
			ReconcileSpec: "0 */5 * * * *",
		},
	}
}

// LoadFromEnv returns the default configuration with FOQOS_* environment
// overrides applied. Unparsable values fall back to the defaults.
func LoadFromEnv() *RuntimeConfig {
	cfg := DefaultRuntimeConfig()

	if v := os.Getenv("FOQOS_TICK_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.Engine.TickInterval = d
		}
	}
	if v := os.Getenv("FOQOS_GHOST_THRESHOLD"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.Engine.GhostThreshold = d
		}
	}
	if v := os.Getenv("FOQOS_API_URL"); v != "" {
		cfg.HTTP.BaseURL = v
	}
	if v := os.Getenv("FOQOS_HTTP_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.HTTP.Timeout = d
		}
	}
	if v := os.Getenv("FOQOS_HTTP_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.HTTP.MaxRetries = n
		}
	}
	if v := os.Getenv("FOQOS_RECONCILE_SPEC"); v != "" {
		cfg.Scheduler.ReconcileSpec = v
	}

	return cfg
}
