// Package handler provides the admin HTTP handlers for shardkv-server.
//
//   - health.go: GET /health liveness probe
//   - stats.go: GET /stats shard and connection statistics
//   - version.go: GET /version build information
//
// /health answers a bare {"status":"ok"} for load balancers; the other
// endpoints use the Response envelope from types.go.
package handler
