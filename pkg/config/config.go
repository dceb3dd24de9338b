// Package config loads and validates the YAML configuration for the
// themis CLI and long-running modes.
package config

import (
	"fmt"
	"time"
)

// Config is the root configuration.
type Config struct {
	// Storage selects and configures the persistence backend.
	Storage StorageConfig `yaml:"storage"`

	// Logging configures structured log output.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics configures the Prometheus exposition endpoint.
	Metrics MetricsConfig `yaml:"metrics"`

	// Scheduler configures recurring compliance runs.
	Scheduler SchedulerConfig `yaml:"scheduler"`

	// Watch configures the policy directory watcher.
	Watch WatchConfig `yaml:"watch"`
}

// StorageConfig selects the persistence backend.
type StorageConfig struct {
	// Backend is "memory" or "sqlite".
	Backend string `yaml:"backend"`

	// Path is the SQLite database file path (sqlite backend only).
	Path string `yaml:"path"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	// Level is "debug", "info", "warn" or "error".
	Level string `yaml:"level"`

	// Format is "json" or "text".
	Format string `yaml:"format"`
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	// Enabled turns the metrics HTTP endpoint on.
	Enabled bool `yaml:"enabled"`

	// ListenAddress is the host:port the endpoint binds to.
	ListenAddress string `yaml:"listen_address"`

	// Namespace prefixes all metric names.
	Namespace string `yaml:"namespace"`
}

// SchedulerConfig configures recurring compliance runs for one
// policy/dataset pair.
type SchedulerConfig struct {
	// Enabled turns the scheduler on for the run command.
	Enabled bool `yaml:"enabled"`

	// Schedule is a cron expression (e.g. "0 3 * * *").
	Schedule string `yaml:"schedule"`

	// PolicyID and DatasetID select the pair to evaluate.
	PolicyID  string `yaml:"policy_id"`
	DatasetID string `yaml:"dataset_id"`
}

// WatchConfig configures the policy directory watcher.
type WatchConfig struct {
	// Enabled turns the watcher on for the run command.
	Enabled bool `yaml:"enabled"`

	// Dir is the directory of policy text files to watch.
	Dir string `yaml:"dir"`

	// Debounce is the quiet period after a file event before rules are
	// re-extracted.
	Debounce Duration `yaml:"debounce"`
}

// Duration wraps time.Duration for YAML decoding of values like "200ms"
// or "5s".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var raw string
	if err := unmarshal(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// AsDuration returns the wrapped time.Duration.
func (d Duration) AsDuration() time.Duration {
	return time.Duration(d)
}
