// ABOUTME: Tests for configuration loading and parsing
// ABOUTME: Covers YAML loading, env var expansion, validation, and duration parsing

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// writeConfig writes a config file into a temp dir and returns its path.
func writeConfig(t *testing.T, content string) string {
	t.Helper()
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return configPath
}

func TestLoad_ValidConfig(t *testing.T) {
	configPath := writeConfig(t, `
server:
  http_addr: "0.0.0.0:8080"

database:
  path: "./test.db"

auth:
  jwt_secret: "test-secret-key-that-is-32-bytes"
  token_ttl: "15m"
  admin_password: "bootstrap-pw"

logging:
  level: "debug"
  format: "json"
`)

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.HTTPAddr != "0.0.0.0:8080" {
		t.Errorf("Server.HTTPAddr = %q, want %q", cfg.Server.HTTPAddr, "0.0.0.0:8080")
	}
	if cfg.Database.Path != "./test.db" {
		t.Errorf("Database.Path = %q, want %q", cfg.Database.Path, "./test.db")
	}
	if cfg.Auth.TokenTTL != 15*time.Minute {
		t.Errorf("Auth.TokenTTL = %v, want %v", cfg.Auth.TokenTTL, 15*time.Minute)
	}
	if cfg.Auth.AdminPassword != "bootstrap-pw" {
		t.Errorf("Auth.AdminPassword = %q, want %q", cfg.Auth.AdminPassword, "bootstrap-pw")
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "debug")
	}
}

func TestLoad_DefaultTokenTTL(t *testing.T) {
	configPath := writeConfig(t, `
server:
  http_addr: ":8080"
database:
  path: "./test.db"
auth:
  jwt_secret: "test-secret-key-that-is-32-bytes"
`)

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Auth.TokenTTL != DefaultTokenTTL {
		t.Errorf("Auth.TokenTTL = %v, want default %v", cfg.Auth.TokenTTL, DefaultTokenTTL)
	}
}

func TestLoad_EnvVarExpansion(t *testing.T) {
	t.Setenv("OPSDESK_TEST_SECRET", "env-provided-secret-that-is-32-b")

	configPath := writeConfig(t, `
server:
  http_addr: ":8080"
database:
  path: "./test.db"
auth:
  jwt_secret: "${OPSDESK_TEST_SECRET}"
`)

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Auth.JWTSecret != "env-provided-secret-that-is-32-b" {
		t.Errorf("Auth.JWTSecret = %q, want expanded env value", cfg.Auth.JWTSecret)
	}
}

func TestLoad_MissingJWTSecret(t *testing.T) {
	configPath := writeConfig(t, `
server:
  http_addr: ":8080"
database:
  path: "./test.db"
`)

	_, err := Load(configPath)
	if err == nil {
		t.Fatal("Load() should fail without auth.jwt_secret")
	}
	if !strings.Contains(err.Error(), "jwt_secret") {
		t.Errorf("error = %v, want mention of jwt_secret", err)
	}
}

func TestLoad_ShortJWTSecret(t *testing.T) {
	configPath := writeConfig(t, `
server:
  http_addr: ":8080"
database:
  path: "./test.db"
auth:
  jwt_secret: "too-short"
`)

	_, err := Load(configPath)
	if err == nil {
		t.Fatal("Load() should fail with a short jwt_secret")
	}
	if !strings.Contains(err.Error(), "at least") {
		t.Errorf("error = %v, want minimum-length message", err)
	}
}

func TestLoad_InvalidTokenTTL(t *testing.T) {
	configPath := writeConfig(t, `
server:
  http_addr: ":8080"
database:
  path: "./test.db"
auth:
  jwt_secret: "test-secret-key-that-is-32-bytes"
  token_ttl: "not-a-duration"
`)

	_, err := Load(configPath)
	if err == nil {
		t.Fatal("Load() should fail with an invalid token_ttl")
	}
}

func TestLoad_ClientCertGateRequiresTLS(t *testing.T) {
	configPath := writeConfig(t, `
server:
  http_addr: ":8080"
  require_client_cert: true
database:
  path: "./test.db"
auth:
  jwt_secret: "test-secret-key-that-is-32-bytes"
`)

	_, err := Load(configPath)
	if err == nil {
		t.Fatal("Load() should fail when require_client_cert is set without TLS")
	}
}

func TestLoad_MismatchedTLSPair(t *testing.T) {
	configPath := writeConfig(t, `
server:
  http_addr: ":8080"
  cert_file: "/etc/opsdesk/server.crt"
database:
  path: "./test.db"
auth:
  jwt_secret: "test-secret-key-that-is-32-bytes"
`)

	_, err := Load(configPath)
	if err == nil {
		t.Fatal("Load() should fail when cert_file is set without key_file")
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("Load() should fail for a missing file")
	}
}
