package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadFromEnv_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DATABASE_URL", "postgres://localhost/exchange")
	t.Setenv("STATS_CACHE_MAX_AGE", "")

	cfg := LoadFromEnv()

	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, "postgres://localhost/exchange", cfg.DatabaseURL)
	assert.Equal(t, DefaultCacheMaxAge, cfg.CacheMaxAge)
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DATABASE_URL", "postgres://localhost/exchange")
	t.Setenv("STATS_CACHE_MAX_AGE", "600")

	cfg := LoadFromEnv()

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, 600, cfg.CacheMaxAge)
}

func TestLoadFromEnv_InvalidIntFallsBack(t *testing.T) {
	t.Setenv("PORT", "not-a-number")
	t.Setenv("DATABASE_URL", "postgres://localhost/exchange")

	cfg := LoadFromEnv()

	assert.Equal(t, DefaultPort, cfg.Port)
}

func TestConfig_Validate(t *testing.T) {
	valid := &Config{Port: 8080, DatabaseURL: "postgres://localhost/exchange", CacheMaxAge: 3600}
	assert.NoError(t, valid.Validate())

	missingDB := &Config{Port: 8080}
	assert.Error(t, missingDB.Validate())

	badPort := &Config{Port: 70000, DatabaseURL: "postgres://localhost/exchange"}
	assert.Error(t, badPort.Validate())

	negativeCache := &Config{Port: 8080, DatabaseURL: "postgres://localhost/exchange", CacheMaxAge: -1}
	assert.Error(t, negativeCache.Validate())
}
