package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigPath returns the default CLI config file path.
func DefaultConfigPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".shardkv", "cli.yaml")
}

// Load reads the config file at path over the defaults. A missing file is
// not an error.
func Load(path string) (*CLIConfig, error) {
	if path == "" {
		path = DefaultConfigPath()
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path with owner-only permissions.
func Save(cfg *CLIConfig, path string) error {
	if path == "" {
		path = DefaultConfigPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// Merge returns a copy of cfg with every non-empty override applied. Keys
// are server, admin, output and timeout.
func Merge(cfg *CLIConfig, overrides map[string]string) *CLIConfig {
	out := *cfg
	for k, v := range overrides {
		if v == "" {
			continue
		}
		switch k {
		case "server":
			out.Server = v
		case "admin":
			out.Admin = v
		case "output":
			out.Output = v
		case "timeout":
			out.Timeout = v
		}
	}
	return &out
}
