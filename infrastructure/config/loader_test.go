package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/felixgeelhaar/fsagent/infrastructure/config"
)

func TestLoadString_YAMLOverDefaults(t *testing.T) {
	t.Parallel()

	content := `
logging:
  level: debug
aliases:
  desktop: /home/user/Desktop
protected:
  - /etc
limits:
  max_results: 25
confirmation:
  ttl: 90s
index:
  backend: badger
  path: /tmp/idx
`
	cfg, err := config.NewLoader().LoadString(content, config.FormatYAML)
	if err != nil {
		t.Fatalf("LoadString() error = %v", err)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q", cfg.Logging.Level)
	}
	if cfg.Aliases["desktop"] != "/home/user/Desktop" {
		t.Errorf("Aliases = %v", cfg.Aliases)
	}
	if cfg.Limits.MaxResults != 25 {
		t.Errorf("MaxResults = %d", cfg.Limits.MaxResults)
	}
	if cfg.Confirmation.TTL != 90*time.Second {
		t.Errorf("TTL = %v", cfg.Confirmation.TTL)
	}
	if cfg.Index.Backend != "badger" {
		t.Errorf("Index.Backend = %q", cfg.Index.Backend)
	}

	// Untouched sections keep their defaults.
	if cfg.Limits.MaxReadBytes != config.Default().Limits.MaxReadBytes {
		t.Errorf("MaxReadBytes = %d, want default", cfg.Limits.MaxReadBytes)
	}
}

func TestLoadString_UnknownBackendRejected(t *testing.T) {
	t.Parallel()

	_, err := config.NewLoader().LoadString("index:\n  backend: cassandra\n", config.FormatYAML)
	if !errors.Is(err, config.ErrValidation) {
		t.Errorf("LoadString() error = %v, want ErrValidation", err)
	}
}

func TestLoadFile_FormatByExtension(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "cfg.json")
	if err := os.WriteFile(jsonPath, []byte(`{"logging":{"level":"warn"}}`), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := config.NewLoader().LoadFile(jsonPath)
	if err != nil {
		t.Fatalf("LoadFile(json) error = %v", err)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %q", cfg.Logging.Level)
	}

	badPath := filepath.Join(dir, "cfg.toml")
	if err := os.WriteFile(badPath, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := config.NewLoader().LoadFile(badPath); !errors.Is(err, config.ErrUnsupportedFormat) {
		t.Errorf("LoadFile(toml) error = %v, want ErrUnsupportedFormat", err)
	}

	if _, err := config.NewLoader().LoadFile(filepath.Join(dir, "absent.yaml")); !errors.Is(err, config.ErrConfigNotFound) {
		t.Errorf("LoadFile(missing) error = %v, want ErrConfigNotFound", err)
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv(config.EnvLogLevel, "error")
	t.Setenv(config.EnvIndexBackend, "memory")
	t.Setenv(config.EnvMaxResults, "7")
	t.Setenv(config.EnvConfirmTTL, "45s")

	cfg := config.Default()
	config.ApplyEnvOverrides(&cfg)

	if cfg.Logging.Level != "error" {
		t.Errorf("Logging.Level = %q", cfg.Logging.Level)
	}
	if cfg.Index.Backend != "memory" {
		t.Errorf("Index.Backend = %q", cfg.Index.Backend)
	}
	if cfg.Limits.MaxResults != 7 {
		t.Errorf("MaxResults = %d", cfg.Limits.MaxResults)
	}
	if cfg.Confirmation.TTL != 45*time.Second {
		t.Errorf("TTL = %v", cfg.Confirmation.TTL)
	}
}

func TestDefaultValidates(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default().Validate() = %v", err)
	}
}
