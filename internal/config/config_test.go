package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestLoadConfigFromFile(t *testing.T) {
	path := writeConfigFile(t, `
server:
  port: "9090"
  mode: production
database:
  host: db.internal
  dbname: workshops
jwt:
  secret: test-secret
logging:
  level: debug
  format: text
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != "9090" {
		t.Errorf("Server.Port = %s, want 9090", cfg.Server.Port)
	}
	if cfg.Database.Host != "db.internal" {
		t.Errorf("Database.Host = %s, want db.internal", cfg.Database.Host)
	}
	// Values absent from the file keep their defaults
	if cfg.Database.Port != "5432" {
		t.Errorf("Database.Port = %s, want default 5432", cfg.Database.Port)
	}
	if cfg.Database.MaxConns != 20 {
		t.Errorf("Database.MaxConns = %d, want default 20", cfg.Database.MaxConns)
	}
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	path := writeConfigFile(t, `
database:
  host: from-file
jwt:
  secret: file-secret
`)

	t.Setenv("DB_HOST", "from-env")
	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("DB_MAX_CONNS", "50")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Database.Host != "from-env" {
		t.Errorf("Database.Host = %s, want from-env", cfg.Database.Host)
	}
	if cfg.JWT.Secret != "env-secret" {
		t.Errorf("JWT.Secret = %s, want env-secret", cfg.JWT.Secret)
	}
	if cfg.Database.MaxConns != 50 {
		t.Errorf("Database.MaxConns = %d, want 50", cfg.Database.MaxConns)
	}
}

func TestLoadConfigMissingFileUsesEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "env-only-secret")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.JWT.Secret != "env-only-secret" {
		t.Errorf("JWT.Secret = %s, want env-only-secret", cfg.JWT.Secret)
	}
}

func TestLoadConfigRequiresJWTSecret(t *testing.T) {
	os.Unsetenv("JWT_SECRET")
	path := writeConfigFile(t, `
database:
  host: localhost
`)

	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected error for missing JWT secret")
	}
}

func TestGetPostgresConnectionString(t *testing.T) {
	cfg := &Config{}
	setDefaults(cfg)
	cfg.Database.User = "app"
	cfg.Database.Password = "pw"
	cfg.Database.Host = "db"
	cfg.Database.Port = "5433"
	cfg.Database.DBName = "hub"

	want := "postgres://app:pw@db:5433/hub?sslmode=disable"
	if got := cfg.GetPostgresConnectionString(); got != want {
		t.Errorf("connection string = %s, want %s", got, want)
	}
}
