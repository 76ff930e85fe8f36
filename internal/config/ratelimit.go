package config

import (
	"time"
)

// RateLimitConfig controls the token-bucket limiter applied to the
// booking endpoints.  Capacity is the burst size; the bucket refills
// RefillTokens tokens every RefillInterval.  TTL bounds how long idle
// buckets live in Redis.
type RateLimitConfig struct {
	Enabled        bool
	Capacity       int
	RefillTokens   int
	RefillInterval time.Duration
	TTL            time.Duration
	Prefix         string
}

// LoadRateLimitConfig reads limiter settings from the environment with
// permissive defaults suited to a small restaurant site.
func LoadRateLimitConfig() RateLimitConfig {
	cfg := RateLimitConfig{
		Enabled:        getenvDefault("RATE_LIMIT_ENABLED", "true") == "true",
		Capacity:       intDefault("RATE_LIMIT_CAPACITY", 30),
		RefillTokens:   intDefault("RATE_LIMIT_REFILL_TOKENS", 1),
		RefillInterval: durDefault("RATE_LIMIT_REFILL_INTERVAL", time.Second),
		TTL:            durDefault("RATE_LIMIT_TTL", 10*time.Minute),
		Prefix:         getenvDefault("RATE_LIMIT_PREFIX", "rl"),
	}
	if cfg.Capacity < 1 {
		cfg.Capacity = 1
	}
	if cfg.RefillTokens < 1 {
		cfg.RefillTokens = 1
	}
	if cfg.RefillInterval <= 0 {
		cfg.RefillInterval = time.Second
	}
	if min := 5 * cfg.RefillInterval; cfg.TTL < min {
		cfg.TTL = min
	}
	return cfg
}
