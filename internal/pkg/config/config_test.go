package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoadWith_Defaults(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET": "secret",
	}))
	if err != nil {
		t.Fatalf("LoadWith: %v", err)
	}
	if cfg.Port != "8080" || cfg.Env != "development" || cfg.LogLevel != "info" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.TokenTTL != time.Hour {
		t.Errorf("expected 1h token ttl, got %v", cfg.TokenTTL)
	}
	if cfg.Store.Backend != BackendMemory {
		t.Errorf("expected memory backend, got %q", cfg.Store.Backend)
	}
	if cfg.Redis.Addr != "" {
		t.Errorf("redis must be opt-in, got %q", cfg.Redis.Addr)
	}
	if cfg.Redis.KeyPrefix != "hbnb:revoked:" {
		t.Errorf("unexpected redis key prefix %q", cfg.Redis.KeyPrefix)
	}
}

func TestLoadWith_Validation(t *testing.T) {
	cases := map[string]map[string]string{
		"missing secret":      {},
		"unknown backend":     {"JWT_SECRET": "s", "STORE_BACKEND": "sqlite"},
		"postgres without dsn": {"JWT_SECRET": "s", "STORE_BACKEND": "postgres"},
		"bcrypt cost too low":  {"JWT_SECRET": "s", "BCRYPT_COST": "2"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := LoadWith(context.Background(), envconfig.MapLookuper(env)); err == nil {
				t.Fatal("expected error")
			}
		})
	}

	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":    "s",
		"STORE_BACKEND": "mysql",
		"DATABASE_DSN":  "hbnb:hbnb@tcp(localhost:3306)/hbnb",
		"ENV":           "production",
	}))
	if err != nil {
		t.Fatalf("LoadWith: %v", err)
	}
	if !cfg.IsProduction() {
		t.Error("expected production")
	}
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte("HBNB_DOTENV_PROBE=from-file\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Cleanup(func() { os.Unsetenv("HBNB_DOTENV_PROBE") })

	if err := LoadDotEnv(path, filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}
	if got := os.Getenv("HBNB_DOTENV_PROBE"); got != "from-file" {
		t.Errorf("expected value from file, got %q", got)
	}
}
