// Package repl provides the interactive mode of shardkv-cli.
//
//   - repl.go: read-eval-print loop and line splitting
//   - completer.go: command name completion and suggestions
//   - history.go: history persisted to ~/.shardkv/history
//
// The loop itself knows only help, exit and quit. Every other line is split
// into arguments and handed to an Executor.
package repl
