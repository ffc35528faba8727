// Package config provides server configuration for shardkv.
//
// This package defines the server configuration structure and validation:
//
//   - spec.go: ServerConfig struct definition and key listing
//   - default.go: Default configuration values
//   - verify.go: Validation (address formats, port conflicts, ranges)
//   - sanitize.go: Normalization before validation
//
// Configuration is loaded via internal/infra/confloader and supports
// multiple sources: files, environment variables, and flags.
package config
