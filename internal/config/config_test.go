package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("SECRET_KEY", "dGVzdC1rZXk=")
	t.Setenv("DATABASE_URL", "postgres://localhost/wps_test?sslmode=disable")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5000, cfg.ServerPort)
	assert.Equal(t, "http://localhost:5000/redirect", cfg.BaseURL)
	assert.Equal(t, "90", cfg.CountryCode)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, 2*time.Second, cfg.Pacing)
	assert.Equal(t, 2*time.Second, cfg.AuthPollInterval)
	assert.Equal(t, time.Second, cfg.ComposePollInterval)
	assert.Equal(t, 10, cfg.ComposePollLimit)
	assert.Equal(t, "WPSProfile", cfg.ChromeProfileDir)
	assert.Empty(t, cfg.RedisURL)
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("SERVER_PORT", "8080")
	t.Setenv("AWARENESS_BASE_URL", "https://portal.example.com/redirect")
	t.Setenv("COUNTRY_CODE", "49")
	t.Setenv("SEND_MAX_RETRIES", "5")
	t.Setenv("SEND_PACING_SECONDS", "0.5")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, "https://portal.example.com/redirect", cfg.BaseURL)
	assert.Equal(t, "49", cfg.CountryCode)
	assert.Equal(t, 5, cfg.MaxRetries)
	assert.Equal(t, 500*time.Millisecond, cfg.Pacing)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
}

func TestLoadMissingSecret(t *testing.T) {
	t.Setenv("SECRET_KEY", "")
	t.Setenv("DATABASE_URL", "postgres://localhost/wps_test")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SECRET_KEY")
}

func TestLoadMissingDatabase(t *testing.T) {
	t.Setenv("SECRET_KEY", "dGVzdC1rZXk=")
	t.Setenv("DATABASE_URL", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestLoadBadNumbers(t *testing.T) {
	setRequired(t)
	t.Setenv("SEND_MAX_RETRIES", "many")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SEND_MAX_RETRIES")
}
