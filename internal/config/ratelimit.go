package config

import "time"

// RateLimitConfig controls the fixed-window limiter protecting the login
// endpoint from credential stuffing.
type RateLimitConfig struct {
	Enabled bool
	Limit   int           // requests allowed per window
	Window  time.Duration // window length
	Prefix  string
}

// LoadRateLimitConfig reads RATE_LIMIT_* variables. Default: 10 login
// attempts per minute per client IP.
func LoadRateLimitConfig() RateLimitConfig {
	cfg := RateLimitConfig{
		Enabled: envBool("RATE_LIMIT_ENABLED", true),
		Limit:   envInt("RATE_LIMIT_LIMIT", 10),
		Window:  envDur("RATE_LIMIT_WINDOW", time.Minute),
		Prefix:  getenv("RATE_LIMIT_PREFIX", "rl"),
	}
	if cfg.Limit < 1 {
		cfg.Limit = 1
	}
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}
	return cfg
}
