package config

import (
	"os"
	"time"
)

// CacheConfig controls the Redis response cache for public GET
// endpoints (menu, table listing).  A short TTL keeps availability
// data from going stale while still absorbing bursts from the booking
// wizard.
type CacheConfig struct {
	Enabled      bool
	TTL          time.Duration
	Prefix       string
	MaxBodyBytes int
}

// LoadCacheConfig reads cache settings from the environment with
// defaults.
func LoadCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled:      getenvDefault("CACHE_ENABLED", "true") == "true",
		TTL:          durDefault("CACHE_TTL", 15*time.Second),
		Prefix:       getenvDefault("CACHE_PREFIX", "cache"),
		MaxBodyBytes: intDefault("CACHE_MAX_BODY_BYTES", 1<<20),
	}
}

func durDefault(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	return def
}
