// Package config loads server settings from the environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const devJWTSecret = "badsession-dev-secret-change-me"

// Config holds every externally supplied setting.
type Config struct {
	Port           int
	DBPath         string
	DBMaxOpenConns int
	JWTSecret      string
	JWTExpiry      time.Duration
	StaticPath     string
	LogLevel       string
	LogFormat      string
	CORSOrigins    string
	RequestTimeout time.Duration

	// LoginRateLimit is the number of login attempts allowed per IP per minute.
	LoginRateLimit int

	AdminUsername string
	AdminPassword string
	AdminFullName string
}

// Load reads .env (if present) and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from the process environment only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		DBPath:        getEnv("DB_PATH", "./data/badsession.db"),
		JWTSecret:     getEnv("JWT_SECRET", ""),
		StaticPath:    getEnv("STATIC_PATH", "./web/dist"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFormat:     getEnv("LOG_FORMAT", "text"),
		CORSOrigins:   getEnv("CORS_ORIGINS", "*"),
		AdminUsername: getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword: getEnv("ADMIN_PASSWORD", "admin123"),
		AdminFullName: getEnv("ADMIN_FULL_NAME", "Administrator"),
	}

	var err error
	if cfg.Port, err = getEnvInt("PORT", 9500); err != nil {
		return nil, err
	}
	if cfg.DBMaxOpenConns, err = getEnvInt("DB_MAX_OPEN_CONNS", 10); err != nil {
		return nil, err
	}
	if cfg.LoginRateLimit, err = getEnvInt("LOGIN_RATE_LIMIT", 10); err != nil {
		return nil, err
	}
	if cfg.JWTExpiry, err = getEnvDuration("JWT_EXPIRY", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.RequestTimeout, err = getEnvDuration("REQUEST_TIMEOUT", 5*time.Second); err != nil {
		return nil, err
	}

	if cfg.JWTSecret == "" {
		slog.Warn("JWT_SECRET not set, using development secret")
		cfg.JWTSecret = devJWTSecret
	}
	if cfg.DBMaxOpenConns < 1 {
		return nil, fmt.Errorf("DB_MAX_OPEN_CONNS must be positive, got %d", cfg.DBMaxOpenConns)
	}
	switch strings.ToLower(cfg.LogFormat) {
	case "text", "json":
	default:
		return nil, fmt.Errorf("LOG_FORMAT must be text or json, got %q", cfg.LogFormat)
	}

	return cfg, nil
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
