package config

import (
	"os"
	"time"
)

// RateLimitConfig controls the fixed-window request limiter applied to
// the unauthenticated auth endpoints.  Window/Max default to 100
// requests per 15 minutes.  When Enabled is false or no Redis client is
// available the limiter becomes a no-op.
type RateLimitConfig struct {
	Enabled bool
	Window  time.Duration
	Max     int
	Prefix  string
}

// LoadRateLimitConfig reads the limiter settings from the environment,
// falling back to defaults when unset.
func LoadRateLimitConfig() RateLimitConfig {
	cfg := RateLimitConfig{
		Enabled: envBool("RATE_LIMIT_ENABLED", true),
		Window:  envDur("RATE_LIMIT_WINDOW", 15*time.Minute),
		Max:     envInt("RATE_LIMIT_MAX", 100),
		Prefix:  envStr("RATE_LIMIT_PREFIX", "rl"),
	}
	if cfg.Max < 1 {
		cfg.Max = 1
	}
	if cfg.Window <= 0 {
		cfg.Window = 15 * time.Minute
	}
	return cfg
}

func envBool(k string, d bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "True", "yes", "YES", "on", "ON":
		return true
	case "0", "false", "FALSE", "False", "no", "NO", "off", "OFF":
		return false
	}
	return d
}
