// Package logger provides structured logging for shardkv.
//
// This package wraps log/slog:
//
//   - logger.go: Logger interface, level control, global default
//   - context.go: Context-aware logging with connection/request IDs
//   - redact.go: Masking of stored values and secrets in log attributes
//
// Features:
//
//   - JSON and text output formats
//   - Runtime log level changes (used by the config file watcher)
//   - Context propagation for per-connection logging
package logger
