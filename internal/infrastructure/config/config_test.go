package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, 25, cfg.DatabaseMaxConns)
	assert.Equal(t, 5, cfg.DatabaseMinConns)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 24*time.Hour, cfg.JWTExpiration)
	assert.Equal(t, 24*time.Hour, cfg.IdempotencyTTL)
	assert.Equal(t, float64(5), cfg.AuthRateLimit)
	assert.Equal(t, 10, cfg.AuthRateBurst)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("DATABASE_MAX_CONNS", "50")
	t.Setenv("JWT_EXPIRATION", "1h")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.HTTPPort)
	assert.Equal(t, 50, cfg.DatabaseMaxConns)
	assert.Equal(t, time.Hour, cfg.JWTExpiration)
}

func TestLoad_RequiresJWTSecret(t *testing.T) {
	// Setenv registers the restore; the test needs the variable absent.
	t.Setenv("JWT_SECRET", "placeholder")
	os.Unsetenv("JWT_SECRET")

	_, err := Load()
	require.Error(t, err)
}
