// Package config reads the service settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Addr            string
	LogLevel        string
	ServiceName     string
	MaxSessions     int
	SessionTTL      time.Duration
	ShutdownTimeout time.Duration
	OTLPLogs        bool
}

// Load reads the configuration from the process environment, falling back to
// defaults for unset variables. Malformed values are an error.
func Load() (Config, error) {
	cfg := Config{
		Addr:        getenv("HTTP_ADDR", ":8080"),
		LogLevel:    getenv("LOG_LEVEL", "info"),
		ServiceName: getenv("OTEL_SERVICE_NAME", "calculator-api"),
	}

	var err error

	if cfg.MaxSessions, err = intEnv("CALCULATOR_MAX_SESSIONS", 1024); err != nil {
		return Config{}, err
	}
	if cfg.MaxSessions < 0 {
		return Config{}, fmt.Errorf("CALCULATOR_MAX_SESSIONS: must not be negative, got %d", cfg.MaxSessions)
	}

	if cfg.SessionTTL, err = durationEnv("CALCULATOR_SESSION_TTL", 30*time.Minute); err != nil {
		return Config{}, err
	}

	if cfg.ShutdownTimeout, err = durationEnv("SHUTDOWN_TIMEOUT", 5*time.Second); err != nil {
		return Config{}, err
	}

	if cfg.OTLPLogs, err = boolEnv("OTEL_LOGS_ENABLED", false); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func intEnv(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func boolEnv(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}
