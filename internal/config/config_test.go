package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.toml"))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.HTTPAddr() != "0.0.0.0:8080" {
		t.Errorf("HTTPAddr() = %q, want %q", cfg.HTTPAddr(), "0.0.0.0:8080")
	}
	if cfg.Auth.Mode != "mock" {
		t.Errorf("Auth.Mode = %q, want %q", cfg.Auth.Mode, "mock")
	}
	if cfg.Auth.MockUserID != 1 || cfg.Auth.MockUsername != "admin" {
		t.Errorf("mock identity = %d/%q, want 1/admin", cfg.Auth.MockUserID, cfg.Auth.MockUsername)
	}
	if cfg.Storage.Backend != "local" {
		t.Errorf("Storage.Backend = %q, want local", cfg.Storage.Backend)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.toml"))
	t.Setenv("APP_PORT", "9090")
	t.Setenv("AUTH_MODE", "jwt")
	t.Setenv("MYSQL_DB", "agenthub_test")
	t.Setenv("RABBITMQ_INDEX_QUEUE", "custom.queue")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.App.Port != 9090 {
		t.Errorf("App.Port = %d, want 9090", cfg.App.Port)
	}
	if cfg.Auth.Mode != "jwt" {
		t.Errorf("Auth.Mode = %q, want jwt", cfg.Auth.Mode)
	}
	if cfg.MySQL.DB != "agenthub_test" {
		t.Errorf("MySQL.DB = %q, want agenthub_test", cfg.MySQL.DB)
	}
	if cfg.RabbitMQ.IndexQueue != "custom.queue" {
		t.Errorf("RabbitMQ.IndexQueue = %q, want custom.queue", cfg.RabbitMQ.IndexQueue)
	}
}

func TestLoadTOMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[app]
port = 8888

[auth]
mode = "jwt"
jwt_secret = "from-file"

[ratelimit]
enabled = false
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	t.Setenv("CONFIG_FILE", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.App.Port != 8888 {
		t.Errorf("App.Port = %d, want 8888", cfg.App.Port)
	}
	if cfg.Auth.JWTSecret != "from-file" {
		t.Errorf("Auth.JWTSecret = %q, want from-file", cfg.Auth.JWTSecret)
	}
	if cfg.RateLimit.Enabled {
		t.Error("RateLimit.Enabled = true, want false")
	}
	// Sections absent from the file keep their defaults.
	if cfg.MySQL.Port != 3306 {
		t.Errorf("MySQL.Port = %d, want 3306", cfg.MySQL.Port)
	}
}

func TestMySQLDSN(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig()
	cfg.MySQL.User = "app"
	cfg.MySQL.Password = "pw"
	cfg.MySQL.Host = "db.internal"
	cfg.MySQL.Port = 3307
	cfg.MySQL.DB = "agents"
	cfg.MySQL.Params = "parseTime=true"

	want := "app:pw@tcp(db.internal:3307)/agents?parseTime=true"
	if got := cfg.MySQLDSN(); got != want {
		t.Errorf("MySQLDSN() = %q, want %q", got, want)
	}
}

func TestEnvOverrideBeatsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("[app]\nport = 8888\n"), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("APP_PORT", "7777")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.App.Port != 7777 {
		t.Errorf("App.Port = %d, want env override 7777", cfg.App.Port)
	}
}
