package config

import "github.com/Dmdv/ants-simulation/internal/sim"

// Config is the top-level YAML structure holding server and simulation
// defaults. Per-run parameters (ant count, map, seed) come from the CLI
// or the HTTP request, not from here.
type Config struct {
	Version    string     `yaml:"version"`
	Server     ServerConf `yaml:"server"`
	Simulation SimConf    `yaml:"simulation"`
}

// ServerConf holds tunable concurrency settings for the HTTP service.
type ServerConf struct {
	Addr         string `yaml:"addr"`
	RunWorkers   int    `yaml:"run_workers"`
	QueueDepth   int    `yaml:"queue_depth"`
	RunTimeoutMs int    `yaml:"run_timeout_ms"`
}

// SimConf holds per-run defaults a request may override.
type SimConf struct {
	MaxTicks      int  `yaml:"max_ticks"`
	MaxMoves      int  `yaml:"max_moves"`
	MoveWorkers   int  `yaml:"move_workers"`
	DistinctStart bool `yaml:"distinct_start"`
}

// Default returns the configuration used when no file is supplied.
func Default() *Config {
	cfg := &Config{Version: "v1"}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.RunWorkers == 0 {
		c.Server.RunWorkers = 4
	}
	if c.Server.QueueDepth == 0 {
		c.Server.QueueDepth = 64
	}
	if c.Server.RunTimeoutMs == 0 {
		c.Server.RunTimeoutMs = 60_000
	}
	if c.Simulation.MaxTicks == 0 {
		c.Simulation.MaxTicks = sim.DefaultMaxTicks
	}
	if c.Simulation.MaxMoves == 0 {
		c.Simulation.MaxMoves = sim.DefaultMaxMoves
	}
}
