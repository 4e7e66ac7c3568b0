// Package config provides configuration loading and validation for the
// stats server and CLI.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds the runtime configuration for the API server.
// Values are read from environment variables; missing values use defaults
// except DatabaseURL, which is required.
type Config struct {
	Port        int    // HTTP listen port
	DatabaseURL string // PostgreSQL connection URL
	CacheMaxAge int    // s-maxage for cacheable stats responses, in seconds
}

// Defaults applied when the corresponding environment variable is unset.
const (
	DefaultPort        = 8080
	DefaultCacheMaxAge = 3600
)

// LoadFromEnv loads configuration from environment variables.
// PORT and STATS_CACHE_MAX_AGE fall back to defaults when unset or
// unparsable; DATABASE_URL has no default.
func LoadFromEnv() *Config {
	return &Config{
		Port:        getEnvInt("PORT", DefaultPort),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		CacheMaxAge: getEnvInt("STATS_CACHE_MAX_AGE", DefaultCacheMaxAge),
	}
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("config error: DATABASE_URL is required")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("config error: port %d out of range", c.Port)
	}
	if c.CacheMaxAge < 0 {
		return fmt.Errorf("config error: cache max age must be non-negative")
	}
	return nil
}

// getEnvInt gets an environment variable as an integer with a default value.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
