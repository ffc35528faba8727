// Package httpserver provides the admin HTTP endpoint of shardkv-server.
//
// Routes:
//
//	GET /health   liveness probe
//	GET /stats    per-shard queue depth and key count, open connections
//	GET /version  build information
//	GET /metrics  Prometheus exposition
//
// Every request passes through Recover and RequestID; Audit logging is
// optional.
package httpserver
