// Package config provides configuration loading for the filesystem agent.
package config

import (
	"errors"
	"fmt"
	"time"
)

// Configuration errors.
var (
	ErrConfigNotFound    = errors.New("config file not found")
	ErrInvalidFormat     = errors.New("invalid config format")
	ErrUnsupportedFormat = errors.New("unsupported config format")
	ErrValidation        = errors.New("config validation failed")
)

// Config is the root configuration for the agent core.
type Config struct {
	Logging      LoggingConfig      `yaml:"logging" json:"logging"`
	Aliases      map[string]string  `yaml:"aliases" json:"aliases"`
	Protected    []string           `yaml:"protected" json:"protected"`
	Limits       LimitsConfig       `yaml:"limits" json:"limits"`
	Confirmation ConfirmationConfig `yaml:"confirmation" json:"confirmation"`
	Index        IndexConfig        `yaml:"index" json:"index"`
	Read         ReadConfig         `yaml:"read" json:"read"`
	Watch        WatchConfig        `yaml:"watch" json:"watch"`
}

// LoggingConfig controls structured logging output.
type LoggingConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
}

// LimitsConfig bounds result sizes and traversal work.
type LimitsConfig struct {
	// MaxReadBytes is the largest file read_file will return.
	MaxReadBytes int64 `yaml:"max_read_bytes" json:"max_read_bytes"`

	// MaxResults caps search result counts.
	MaxResults int `yaml:"max_results" json:"max_results"`

	// MaxWalkNodes bounds the live-walk fallback when a scope is unindexed.
	MaxWalkNodes int `yaml:"max_walk_nodes" json:"max_walk_nodes"`
}

// ConfirmationConfig controls the destructive-operation gate.
type ConfirmationConfig struct {
	// TTL is how long a confirmation token stays valid.
	TTL time.Duration `yaml:"ttl" json:"ttl"`
}

// IndexConfig selects and locates the index store backend.
type IndexConfig struct {
	// Backend is one of "sqlite", "badger", "memory".
	Backend string `yaml:"backend" json:"backend"`

	// Path is the on-disk location of the store.
	Path string `yaml:"path" json:"path"`
}

// ReadConfig controls read_file behavior.
type ReadConfig struct {
	// TextExtensions is the allowlist of readable extensions (no dot).
	TextExtensions []string `yaml:"text_extensions" json:"text_extensions"`
}

// WatchConfig controls best-effort filesystem watching.
type WatchConfig struct {
	Enabled bool `yaml:"enabled" json:"enabled"`
}

// Default returns a configuration with sensible defaults.
func Default() Config {
	return Config{
		Logging: LoggingConfig{Level: "info", Format: "console"},
		Aliases: map[string]string{},
		Limits: LimitsConfig{
			MaxReadBytes: 5 * 1024 * 1024,
			MaxResults:   50,
			MaxWalkNodes: 50000,
		},
		Confirmation: ConfirmationConfig{TTL: 60 * time.Second},
		Index:        IndexConfig{Backend: "sqlite", Path: "file_index.db"},
		Read: ReadConfig{
			TextExtensions: []string{
				"txt", "md", "py", "go", "csv", "json", "xml", "html", "css", "js",
				"log", "cfg", "ini", "yml", "yaml", "sql", "sh", "bat", "toml",
			},
		},
		Watch: WatchConfig{Enabled: false},
	}
}

// Validate checks the configuration for contradictions.
func (c *Config) Validate() error {
	if c.Limits.MaxReadBytes <= 0 {
		return fmt.Errorf("%w: limits.max_read_bytes must be positive", ErrValidation)
	}
	if c.Limits.MaxResults <= 0 {
		return fmt.Errorf("%w: limits.max_results must be positive", ErrValidation)
	}
	if c.Limits.MaxWalkNodes <= 0 {
		return fmt.Errorf("%w: limits.max_walk_nodes must be positive", ErrValidation)
	}
	if c.Confirmation.TTL <= 0 {
		return fmt.Errorf("%w: confirmation.ttl must be positive", ErrValidation)
	}
	switch c.Index.Backend {
	case "sqlite", "badger", "memory":
	default:
		return fmt.Errorf("%w: unknown index backend %q", ErrValidation, c.Index.Backend)
	}
	if c.Index.Backend != "memory" && c.Index.Path == "" {
		return fmt.Errorf("%w: index.path required for backend %q", ErrValidation, c.Index.Backend)
	}
	return nil
}
