// Package metric provides Prometheus metrics for shardkv.
//
// It exposes metrics in Prometheus format for monitoring connection
// counts, command rates, batch routing and shard health.
package metric

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Namespace prefixes every metric name.
const Namespace = "shardkv"

// Registry holds all application metrics.
type Registry struct {
	registry *prometheus.Registry

	// Connection metrics
	ConnectionsActive   prometheus.Gauge
	ConnectionsTotal    prometheus.Counter
	ConnectionsRejected prometheus.Counter

	// Command metrics
	CommandsTotal  *prometheus.CounterVec
	ProtocolErrors *prometheus.CounterVec

	// Batch metrics
	BatchSize prometheus.Histogram
	BatchHops prometheus.Histogram
}

// NewRegistry creates a registry with the application metrics and the Go
// runtime and process collectors registered.
func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),

		ConnectionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "connections_active",
			Help:      "Number of open client connections",
		}),
		ConnectionsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "connections_total",
			Help:      "Total accepted client connections",
		}),
		ConnectionsRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "connections_rejected_total",
			Help:      "Connections refused because the connection limit was reached",
		}),
		CommandsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "commands_total",
			Help:      "Executed commands by verb",
		}, []string{"command"}),
		ProtocolErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "protocol_errors_total",
			Help:      "Connections terminated by an error, by kind",
		}, []string{"kind"}),
		BatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "batch_size",
			Help:      "Commands per pipelined batch",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 11),
		}),
		BatchHops: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "batch_hops",
			Help:      "Shard-to-shard forwards per batch",
			Buckets:   prometheus.LinearBuckets(0, 1, 9),
		}),
	}

	r.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.ConnectionsActive,
		r.ConnectionsTotal,
		r.ConnectionsRejected,
		r.CommandsTotal,
		r.ProtocolErrors,
		r.BatchSize,
		r.BatchHops,
	)

	return r
}

// Register adds a collector to the registry.
func (r *Registry) Register(c prometheus.Collector) error {
	return r.registry.Register(c)
}

// Gatherer returns the underlying gatherer (useful in tests).
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}

// Handler returns an HTTP handler serving this registry.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{
		Registry: r.registry,
	})
}

var (
	globalOnce     sync.Once
	globalRegistry *Registry
)

// Global returns the process-wide registry.
func Global() *Registry {
	globalOnce.Do(func() {
		globalRegistry = NewRegistry()
	})
	return globalRegistry
}

// Handler returns an HTTP handler for the /metrics endpoint of the global
// registry.
func Handler() http.Handler {
	return Global().Handler()
}

// The helpers below are nil-safe so components can run without metrics.

// ConnOpened records an accepted connection.
func (r *Registry) ConnOpened() {
	if r == nil {
		return
	}
	r.ConnectionsTotal.Inc()
	r.ConnectionsActive.Inc()
}

// ConnClosed records a closed connection.
func (r *Registry) ConnClosed() {
	if r == nil {
		return
	}
	r.ConnectionsActive.Dec()
}

// ConnRejected records a connection refused at the limit.
func (r *Registry) ConnRejected() {
	if r == nil {
		return
	}
	r.ConnectionsRejected.Inc()
}

// RecordCommand counts one executed command.
func (r *Registry) RecordCommand(command string) {
	if r == nil {
		return
	}
	r.CommandsTotal.WithLabelValues(command).Inc()
}

// RecordError counts a connection-terminating error of the given kind.
func (r *Registry) RecordError(kind string) {
	if r == nil {
		return
	}
	r.ProtocolErrors.WithLabelValues(kind).Inc()
}

// ObserveBatch records the size and hop count of a resolved batch.
func (r *Registry) ObserveBatch(size, hops int) {
	if r == nil {
		return
	}
	r.BatchSize.Observe(float64(size))
	r.BatchHops.Observe(float64(hops))
}
