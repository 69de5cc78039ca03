package config

import (
	"testing"
	"time"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "DB_PATH", "DB_MAX_OPEN_CONNS", "JWT_SECRET", "JWT_EXPIRY", "LOG_FORMAT", "REQUEST_TIMEOUT"} {
		t.Setenv(key, "")
	}

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv failed: %v", err)
	}

	if cfg.Port != 9500 {
		t.Errorf("Port = %d, want 9500", cfg.Port)
	}
	if cfg.DBMaxOpenConns != 10 {
		t.Errorf("DBMaxOpenConns = %d, want 10", cfg.DBMaxOpenConns)
	}
	if cfg.JWTExpiry != 24*time.Hour {
		t.Errorf("JWTExpiry = %v, want 24h", cfg.JWTExpiry)
	}
	if cfg.JWTSecret != devJWTSecret {
		t.Error("expected development secret fallback")
	}
	if cfg.Addr() != ":9500" {
		t.Errorf("Addr() = %q", cfg.Addr())
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "8081")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("JWT_EXPIRY", "2h")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv failed: %v", err)
	}
	if cfg.Port != 8081 || cfg.JWTSecret != "s3cret" || cfg.JWTExpiry != 2*time.Hour || cfg.LogFormat != "json" {
		t.Errorf("overrides not applied: %+v", cfg)
	}
}

func TestFromEnvInvalid(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"PORT", "abc"},
		{"DB_MAX_OPEN_CONNS", "0"},
		{"JWT_EXPIRY", "tomorrow"},
		{"LOG_FORMAT", "xml"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := FromEnv(); err == nil {
				t.Errorf("expected error for %s=%s", tt.key, tt.value)
			}
		})
	}
}
