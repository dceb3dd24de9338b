package config

import "time"

// Default configuration values.
const (
	DefaultStorageBackend = "sqlite"
	DefaultStoragePath    = "data/themis.db"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"

	DefaultMetricsListenAddress = "127.0.0.1:9090"
	DefaultMetricsNamespace     = "themis"

	DefaultWatchDebounce = 200 * time.Millisecond
)

// ApplyDefaults fills unset fields with defaults. Explicit values are
// never overwritten.
func ApplyDefaults(cfg *Config) {
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = DefaultStorageBackend
	}
	if cfg.Storage.Path == "" {
		cfg.Storage.Path = DefaultStoragePath
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = DefaultLogLevel
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = DefaultLogFormat
	}
	if cfg.Metrics.ListenAddress == "" {
		cfg.Metrics.ListenAddress = DefaultMetricsListenAddress
	}
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = Duration(DefaultWatchDebounce)
	}
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}
