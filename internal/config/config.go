package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Simulation SimulationConfig `toml:"simulation"`
	Binding    BindingConfig    `toml:"binding"`
	Logging    LoggingConfig    `toml:"logging"`
}

type SimulationConfig struct {
	TickRate time.Duration `toml:"tick_rate"`
	MaxTicks uint64        `toml:"max_ticks"` // 0 = run until signalled
	Seed     int64         `toml:"seed"`      // exposed to scripts as SEED
}

type BindingConfig struct {
	ViewsFile     string `toml:"views_file"`
	ScriptDir     string `toml:"script_dir"`
	Script        string `toml:"script"`          // optional single script loaded after script_dir
	OnDemandEvery uint64 `toml:"on_demand_every"` // force-render on-demand views every N ticks, 0 = never
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Default returns the built-in configuration used when no file is present.
func Default() *Config {
	return defaults()
}

func (c *Config) validate() error {
	if c.Simulation.TickRate <= 0 {
		return fmt.Errorf("simulation.tick_rate must be positive, got %s", c.Simulation.TickRate)
	}
	if c.Binding.ViewsFile == "" {
		return fmt.Errorf("binding.views_file is required")
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format %q: want json or console", c.Logging.Format)
	}
	return nil
}

func defaults() *Config {
	return &Config{
		Simulation: SimulationConfig{
			TickRate: 200 * time.Millisecond,
			Seed:     1,
		},
		Binding: BindingConfig{
			ViewsFile:     "data/yaml/view_list.yaml",
			ScriptDir:     "scripts/sim",
			OnDemandEvery: 10,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
