package config

import (
	"fmt"
	"time"
)

// CLIConfig is the configuration for shardkv-cli.
type CLIConfig struct {
	// Server is the RESP address (host:port).
	Server string `yaml:"server"`
	// Admin is the admin HTTP address used by stats, health and version.
	Admin string `yaml:"admin"`
	// Output is the default format: table, json or yaml.
	Output string `yaml:"output"`
	// Timeout bounds dials and round trips, as a Go duration ("5s").
	Timeout string `yaml:"timeout"`
}

// Default returns the default CLI configuration.
func Default() *CLIConfig {
	return &CLIConfig{
		Server:  "127.0.0.1:6379",
		Admin:   "127.0.0.1:9121",
		Output:  "table",
		Timeout: "5s",
	}
}

// TimeoutDuration parses Timeout.
func (c *CLIConfig) TimeoutDuration() (time.Duration, error) {
	if c.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q: %w", c.Timeout, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid timeout %q: must not be negative", c.Timeout)
	}
	return d, nil
}
