package config

import (
	"fmt"
	"strings"
)

var (
	validBackends  = map[string]bool{"memory": true, "sqlite": true}
	validLogLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	validFormats   = map[string]bool{"json": true, "text": true}
)

// Validate checks a configuration for unusable values. It assumes
// defaults have already been applied.
func Validate(cfg *Config) error {
	var problems []string

	if !validBackends[cfg.Storage.Backend] {
		problems = append(problems, fmt.Sprintf("storage.backend %q (want memory or sqlite)", cfg.Storage.Backend))
	}
	if cfg.Storage.Backend == "sqlite" && cfg.Storage.Path == "" {
		problems = append(problems, "storage.path required for sqlite backend")
	}
	if !validLogLevels[cfg.Logging.Level] {
		problems = append(problems, fmt.Sprintf("logging.level %q", cfg.Logging.Level))
	}
	if !validFormats[cfg.Logging.Format] {
		problems = append(problems, fmt.Sprintf("logging.format %q", cfg.Logging.Format))
	}
	// The policy/dataset pair may arrive via command flags instead of
	// config, so only the schedule itself is required here.
	if cfg.Scheduler.Enabled && cfg.Scheduler.Schedule == "" {
		problems = append(problems, "scheduler.schedule required when scheduler enabled")
	}
	if cfg.Watch.Enabled && cfg.Watch.Dir == "" {
		problems = append(problems, "watch.dir required when watch enabled")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid: %s", strings.Join(problems, "; "))
	}
	return nil
}
