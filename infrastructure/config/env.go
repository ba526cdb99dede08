package config

import (
	"os"
	"strconv"
	"time"
)

// Environment variable names recognized as overrides. These take
// precedence over file-supplied values.
const (
	EnvLogLevel     = "FSAGENT_LOG_LEVEL"
	EnvLogFormat    = "FSAGENT_LOG_FORMAT"
	EnvIndexBackend = "FSAGENT_INDEX_BACKEND"
	EnvIndexPath    = "FSAGENT_INDEX_PATH"
	EnvMaxReadBytes = "FSAGENT_MAX_READ_BYTES"
	EnvMaxResults   = "FSAGENT_MAX_RESULTS"
	EnvConfirmTTL   = "FSAGENT_CONFIRM_TTL"
)

// ApplyEnvOverrides layers FSAGENT_* environment variables over cfg.
func ApplyEnvOverrides(cfg *Config) {
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv(EnvIndexBackend); v != "" {
		cfg.Index.Backend = v
	}
	if v := os.Getenv(EnvIndexPath); v != "" {
		cfg.Index.Path = v
	}
	if v := os.Getenv(EnvMaxReadBytes); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Limits.MaxReadBytes = n
		}
	}
	if v := os.Getenv(EnvMaxResults); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Limits.MaxResults = n
		}
	}
	if v := os.Getenv(EnvConfirmTTL); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Confirmation.TTL = d
		}
	}
}
