// Package config loads engine defaults from a TOML file. CLI flags override
// anything set here.
package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Config holds the tunable engine defaults.
type Config struct {
	TileSize    int    `toml:"tile_size"`
	Workers     int    `toml:"workers"`
	Parallel    bool   `toml:"parallel"`
	LogLevel    string `toml:"log_level"`
	JPEGQuality int    `toml:"jpeg_quality"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		TileSize:    128,
		Workers:     0, // 0 means one worker per CPU
		Parallel:    true,
		LogLevel:    "info",
		JPEGQuality: 90,
	}
}

// Load reads path over the defaults; absent keys keep their default values.
func Load(path string) (Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate mirrors the engine's parameter rules so a bad file fails at load
// time rather than mid-run.
func (c Config) Validate() error {
	if c.TileSize < 1 {
		return fmt.Errorf("tile_size %d, must be >= 1", c.TileSize)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers %d, must be >= 0", c.Workers)
	}
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		return fmt.Errorf("jpeg_quality %d, must be in [1, 100]", c.JPEGQuality)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level %q, must be debug, info, warn or error", c.LogLevel)
	}
	return nil
}
