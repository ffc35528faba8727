// Package command provides the shardkv-cli command line.
//
// This package defines the commands using urfave/cli/v2:
//
//   - root.go: App, global flags, settings resolution
//   - kv.go: get and set
//   - pipe.go: pipelined GET/SET lines from a file or stdin
//   - admin.go: stats, health and version from the admin endpoint
//   - shell.go: interactive mode
//
// Settings come from ~/.shardkv/cli.yaml, overridden by SHARDKV_*
// environment variables and flags.
package command
