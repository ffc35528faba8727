// Package metric provides Prometheus metrics for shardkv.
//
// This package implements metrics collection and exposition:
//
//   - prometheus.go: Registry with the server's counters, gauges and
//     histograms, plus the HTTP handler
//   - collector.go: Custom collector reading per-shard statistics
//
// Metrics include:
//
//   - Connection gauges and counters
//   - Command counters by verb
//   - Batch size and hop histograms
//   - Per-shard queue depth and key count
//
// Metrics are exposed at /metrics in Prometheus format.
package metric
