package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("TOKEN_TTL", "")
	t.Setenv("SERVER_PORT", "")
	t.Setenv("DB_MAX_CONNS", "")
	t.Setenv("AUTH_RATE_PER_MIN", "")
	t.Setenv("CORS_ORIGINS", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.TokenTTL != 24*time.Hour {
		t.Fatalf("expected default ttl 24h, got %s", cfg.TokenTTL)
	}
	if cfg.Addr() != ":8080" {
		t.Fatalf("expected :8080, got %s", cfg.Addr())
	}
	if cfg.DBMaxConns != 0 {
		t.Fatalf("expected default max conns 0, got %d", cfg.DBMaxConns)
	}
	if cfg.AuthRatePerMinute != 10 {
		t.Fatalf("expected default auth rate 10, got %d", cfg.AuthRatePerMinute)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "*" {
		t.Fatalf("expected wildcard origin, got %v", cfg.CORSOrigins)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("TOKEN_TTL", "90m")
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("DB_MAX_CONNS", "16")
	t.Setenv("CORS_ORIGINS", "https://stylebook.app, http://localhost:3000")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.TokenTTL != 90*time.Minute {
		t.Fatalf("expected 90m, got %s", cfg.TokenTTL)
	}
	if cfg.Addr() != ":9000" {
		t.Fatalf("expected :9000, got %s", cfg.Addr())
	}
	if cfg.DBMaxConns != 16 {
		t.Fatalf("expected 16, got %d", cfg.DBMaxConns)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "http://localhost:3000" {
		t.Fatalf("unexpected origins %v", cfg.CORSOrigins)
	}
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing JWT_SECRET")
	}

	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("TOKEN_TTL", "soon")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for malformed TOKEN_TTL")
	}

	t.Setenv("TOKEN_TTL", "1h")
	t.Setenv("AUTH_RATE_PER_MIN", "0")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for zero AUTH_RATE_PER_MIN")
	}
}
