package config

import (
	"fmt"
	"strings"
)

// Validate checks the config for missing or out-of-range fields and
// reports every problem at once.
func Validate(cfg *Config) error {
	var errs []string
	if cfg.Version == "" {
		errs = append(errs, "version is required")
	}
	if cfg.Server.RunWorkers < 0 {
		errs = append(errs, "server.run_workers must not be negative")
	}
	if cfg.Server.QueueDepth < 0 {
		errs = append(errs, "server.queue_depth must not be negative")
	}
	if cfg.Server.RunTimeoutMs < 0 {
		errs = append(errs, "server.run_timeout_ms must not be negative")
	}
	if cfg.Simulation.MaxTicks < 0 {
		errs = append(errs, "simulation.max_ticks must not be negative")
	}
	if cfg.Simulation.MaxMoves < 0 {
		errs = append(errs, "simulation.max_moves must not be negative")
	}
	if cfg.Simulation.MoveWorkers < 0 {
		errs = append(errs, "simulation.move_workers must not be negative")
	}
	if len(errs) > 0 {
		return fmt.Errorf("config validation errors:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
