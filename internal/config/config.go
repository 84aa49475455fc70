// Package config handles netplay configuration loading using viper.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds the tunable netplay parameters. Maps to the `netplay:` root
// key in YAML.
type Config struct {
	// Delay is the artificial input delay, in frames, seeded into every
	// participant's input buffer at connection start.
	Delay int `mapstructure:"delay"`

	// MaxLeadStep caps how far a single Buffer packet's lead hint may move a
	// participant's delay, in frames. Large jumps desync the simulation, so
	// adjustments are spread over consecutive frames.
	MaxLeadStep int `mapstructure:"max_lead_step"`

	// StatsInterval controls how often session statistics are logged.
	StatsInterval time.Duration `mapstructure:"stats_interval"`

	// Debug enables debug-level logging.
	Debug bool `mapstructure:"debug"`
}

// envelope matches the YAML root wrapper.
type envelope struct {
	Netplay Config `mapstructure:"netplay"`
}

// Default returns the built-in configuration used when no file is given.
func Default() *Config {
	return &Config{
		Delay:         5,
		MaxLeadStep:   1,
		StatsInterval: 10 * time.Second,
	}
}

// Load reads configuration from a YAML file. Keys absent from the file keep
// their defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}

	var env envelope
	if err := v.Unmarshal(&env); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}

	cfg := env.Netplay
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects values the session cannot run with.
func (c *Config) Validate() error {
	if c.Delay < 0 {
		return fmt.Errorf("netplay.delay must be >= 0, got %d", c.Delay)
	}
	if c.MaxLeadStep < 1 {
		return fmt.Errorf("netplay.max_lead_step must be >= 1, got %d", c.MaxLeadStep)
	}
	if c.StatsInterval <= 0 {
		return fmt.Errorf("netplay.stats_interval must be positive, got %s", c.StatsInterval)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	def := Default()
	v.SetDefault("netplay.delay", def.Delay)
	v.SetDefault("netplay.max_lead_step", def.MaxLeadStep)
	v.SetDefault("netplay.stats_interval", def.StatsInterval)
	v.SetDefault("netplay.debug", def.Debug)
}
