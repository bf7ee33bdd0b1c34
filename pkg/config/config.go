// Package config loads the reporting configuration: which crew members
// a stage engages and where they write. It configures the library only;
// process bootstrapping belongs to the embedding test framework.
package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/odvcencio/stagehand/pkg/errors"
)

// Default configuration values exported for documentation and validation
const (
	DefaultRunLogPath    = ".stagehand/runlog.jsonl"
	DefaultJournalPath   = ".stagehand/journal.db"
	DefaultPhotoStrategy = "on_failure"
	DefaultBusURL        = "nats://localhost:4222"
)

// Config represents the complete stagehand reporting configuration
type Config struct {
	Console    ConsoleConfig    `yaml:"console"`
	RunLog     RunLogConfig     `yaml:"run_log"`
	Journal    JournalConfig    `yaml:"journal"`
	Metrics    MetricsConfig    `yaml:"metrics"`
	Tracing    TracingConfig    `yaml:"tracing"`
	Forwarding ForwardingConfig `yaml:"forwarding"`
	Photos     PhotosConfig     `yaml:"photos"`
}

// ConsoleConfig controls the console step-tree reporter
type ConsoleConfig struct {
	Enabled bool `yaml:"enabled"`
}

// RunLogConfig controls the JSONL run log
type RunLogConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// JournalConfig controls the sqlite event journal
type JournalConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// MetricsConfig controls the prometheus metrics collector
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// TracingConfig controls the OpenTelemetry tracer
type TracingConfig struct {
	Enabled bool `yaml:"enabled"`
}

// ForwardingConfig controls bus forwarding of the event stream
type ForwardingConfig struct {
	Enabled bool   `yaml:"enabled"`
	URL     string `yaml:"url"`
}

// PhotosConfig controls the photographer crew member
type PhotosConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Strategy string `yaml:"strategy"` // "on_failure" or "on_every_interaction"
}

// DefaultConfig returns a configuration with only the console reporter
// enabled and every path at its default.
func DefaultConfig() *Config {
	return &Config{
		Console: ConsoleConfig{Enabled: true},
		RunLog:  RunLogConfig{Path: DefaultRunLogPath},
		Journal: JournalConfig{Path: DefaultJournalPath},
		Forwarding: ForwardingConfig{
			URL: DefaultBusURL,
		},
		Photos: PhotosConfig{
			Strategy: DefaultPhotoStrategy,
		},
	}
}

// Load reads a YAML configuration file, applying defaults for anything
// unset.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigLoad, "failed to read config file").
			WithContext("path", path)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigParse, "failed to parse config file").
			WithContext("path", path)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	if c.RunLog.Enabled && c.RunLog.Path == "" {
		return errors.New(errors.ErrCodeConfigInvalid, "run_log.path is required when run_log is enabled")
	}
	if c.Journal.Enabled && c.Journal.Path == "" {
		return errors.New(errors.ErrCodeConfigInvalid, "journal.path is required when journal is enabled")
	}
	if c.Forwarding.Enabled && c.Forwarding.URL == "" {
		return errors.New(errors.ErrCodeConfigInvalid, "forwarding.url is required when forwarding is enabled")
	}
	switch c.Photos.Strategy {
	case "", "on_failure", "on_every_interaction":
	default:
		return errors.New(errors.ErrCodeConfigInvalid, "photos.strategy must be on_failure or on_every_interaction").
			WithContext("strategy", c.Photos.Strategy)
	}
	return nil
}
