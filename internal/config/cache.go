package config

import (
    "os"
    "strconv"
    "time"
)

// CacheConfig defines settings for the catalog response cache middleware.
// When Enabled is false or no Redis client is available, caching is a no-op.
// TTL defines the lifetime of cache entries; Prefix namespaces keys;
// MaxBodyBytes caps the size of responses worth caching.
type CacheConfig struct {
    Enabled      bool
    TTL          time.Duration
    Prefix       string
    MaxBodyBytes int
}

// LoadCacheConfig reads environment variables to build a CacheConfig.
// Defaults are used when variables are not set.
func LoadCacheConfig() CacheConfig {
    return CacheConfig{
        Enabled:      boolenv("CACHE_ENABLED", true),
        TTL:          durenv("CACHE_TTL", 30*time.Second),
        Prefix:       strenv("CACHE_PREFIX", "cache"),
        MaxBodyBytes: intdef("CACHE_MAX_BODY_BYTES", 1<<20),
    }
}

// LoginRateConfig defines the fixed-window rate limit applied to the login
// endpoint.  Limit attempts per Window per client IP.
type LoginRateConfig struct {
    Enabled bool
    Limit   int
    Window  time.Duration
    Prefix  string
}

// LoadLoginRateConfig reads environment variables to build a LoginRateConfig.
func LoadLoginRateConfig() LoginRateConfig {
    cfg := LoginRateConfig{
        Enabled: boolenv("LOGIN_RATE_ENABLED", true),
        Limit:   intdef("LOGIN_RATE_LIMIT", 10),
        Window:  durenv("LOGIN_RATE_WINDOW", time.Minute),
        Prefix:  strenv("LOGIN_RATE_PREFIX", "rl:login"),
    }
    if cfg.Limit < 1 {
        cfg.Limit = 1
    }
    if cfg.Window <= 0 {
        cfg.Window = time.Minute
    }
    return cfg
}

func strenv(key, def string) string {
    if v := os.Getenv(key); v != "" {
        return v
    }
    return def
}

func boolenv(key string, def bool) bool {
    switch os.Getenv(key) {
    case "1", "true", "TRUE", "True", "yes", "on":
        return true
    case "0", "false", "FALSE", "False", "no", "off":
        return false
    }
    return def
}

func intdef(key string, def int) int {
    v := os.Getenv(key)
    if v == "" {
        return def
    }
    if n, err := strconv.Atoi(v); err == nil {
        return n
    }
    return def
}

func durenv(key string, def time.Duration) time.Duration {
    v := os.Getenv(key)
    if v == "" {
        return def
    }
    if d, err := time.ParseDuration(v); err == nil {
        return d
    }
    return def
}
