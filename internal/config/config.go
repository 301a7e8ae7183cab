// Package config loads simulator configuration from the environment.
// A .env file in the working directory is honored when present (local
// development), but real environment variables always win.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the simulator binaries.
type Config struct {
	// SecretKey is the base64-encoded token key. Required; every binary
	// that encodes or decodes bearer tokens fails fast without it.
	SecretKey string

	// DatabaseURL is the Postgres DSN for the directory and event log.
	DatabaseURL string

	// RedisURL enables the Redis-backed sender run lock when set.
	// When empty the sender falls back to a Postgres advisory lock.
	RedisURL string

	// BaseURL is the public landing URL embedded in outbound links.
	BaseURL string

	// ServerPort is the awareness server listen port.
	ServerPort int

	// CountryCode is prepended to phone numbers that are not already in
	// international format.
	CountryCode string

	// MaxRetries is the per-recipient send attempt ceiling.
	MaxRetries int

	// Pacing is the fixed delay between recipients. This is an abuse
	// mitigation requirement, not a cosmetic delay; dropping it risks the
	// whole session being throttled mid-run.
	Pacing time.Duration

	// AuthPollInterval is how often the sender checks whether the operator
	// has completed the QR login.
	AuthPollInterval time.Duration

	// ComposePollInterval and ComposePollLimit bound the wait for the
	// message compose box after opening a conversation.
	ComposePollInterval time.Duration
	ComposePollLimit    int

	// ChromeProfileDir is the persistent browser profile, so the QR scan
	// is only needed once per profile.
	ChromeProfileDir string
}

// Load reads configuration from the environment, with .env as a fallback
// source. It returns an error for missing required values so binaries can
// abort startup with a clear message instead of failing mid-run.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		SecretKey:           os.Getenv("SECRET_KEY"),
		DatabaseURL:         os.Getenv("DATABASE_URL"),
		RedisURL:            os.Getenv("REDIS_URL"),
		BaseURL:             getEnv("AWARENESS_BASE_URL", "http://localhost:5000/redirect"),
		CountryCode:         getEnv("COUNTRY_CODE", "90"),
		ChromeProfileDir:    getEnv("CHROME_PROFILE_DIR", "WPSProfile"),
		ServerPort:          5000,
		MaxRetries:          3,
		Pacing:              2 * time.Second,
		AuthPollInterval:    2 * time.Second,
		ComposePollInterval: time.Second,
		ComposePollLimit:    10,
	}

	if cfg.SecretKey == "" {
		return nil, fmt.Errorf("config: SECRET_KEY is required (run cmd/keygen once to provision it)")
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("config: DATABASE_URL is required")
	}

	var err error
	if cfg.ServerPort, err = intEnv("SERVER_PORT", cfg.ServerPort); err != nil {
		return nil, err
	}
	if cfg.MaxRetries, err = intEnv("SEND_MAX_RETRIES", cfg.MaxRetries); err != nil {
		return nil, err
	}
	if cfg.ComposePollLimit, err = intEnv("COMPOSE_POLL_LIMIT", cfg.ComposePollLimit); err != nil {
		return nil, err
	}
	if cfg.Pacing, err = secondsEnv("SEND_PACING_SECONDS", cfg.Pacing); err != nil {
		return nil, err
	}
	if cfg.AuthPollInterval, err = secondsEnv("AUTH_POLL_SECONDS", cfg.AuthPollInterval); err != nil {
		return nil, err
	}
	if cfg.ComposePollInterval, err = secondsEnv("COMPOSE_POLL_SECONDS", cfg.ComposePollInterval); err != nil {
		return nil, err
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func intEnv(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s must be an integer, got %q", key, v)
	}
	return n, nil
}

func secondsEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("config: %s must be a non-negative number of seconds, got %q", key, v)
	}
	return time.Duration(n * float64(time.Second)), nil
}
