// Package config provides the shardkv-cli configuration file.
//
//   - spec.go: CLIConfig struct (~/.shardkv/cli.yaml)
//   - loader.go: loading, saving and merging with flags
//
// Precedence, lowest first: built-in defaults, the config file, then
// SHARDKV_* environment variables and command-line flags.
package config
