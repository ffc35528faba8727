// Package main provides the entry point for shardkv-server.
//
// The server runs:
//
//   - the sharded in-memory key space, one worker goroutine per shard
//   - a RESP listener answering pipelined GET and SET
//   - an optional admin HTTP endpoint with /metrics, /health, /stats and
//     /version
//
// Usage:
//
//	shardkv-server [flags]
//	shardkv-server --config /etc/shardkv/server.yaml
//
// Every config key can be overridden from the environment with the SHARDKV_
// prefix, e.g. SHARDKV_STORE_SHARD_COUNT=8. When a config file is given, a
// change to log.level is applied without a restart.
package main
