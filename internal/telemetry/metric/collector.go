// Package metric provides Prometheus metrics for shardkv.
package metric

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/yndnr/shardkv-go/internal/storage/shard"
)

// StatsSource reports per-shard statistics.
type StatsSource interface {
	Stats() []shard.Stats
}

// Collector exports shard statistics at scrape time.
type Collector struct {
	source StatsSource

	queueDepth *prometheus.Desc
	keys       *prometheus.Desc
	executed   *prometheus.Desc
}

// NewCollector creates a collector over source.
func NewCollector(source StatsSource) *Collector {
	return &Collector{
		source: source,
		queueDepth: prometheus.NewDesc(
			prometheus.BuildFQName(Namespace, "shard", "queue_depth"),
			"Work items waiting in the shard queue",
			[]string{"shard"}, nil,
		),
		keys: prometheus.NewDesc(
			prometheus.BuildFQName(Namespace, "shard", "keys"),
			"Keys stored in the shard",
			[]string{"shard"}, nil,
		),
		executed: prometheus.NewDesc(
			prometheus.BuildFQName(Namespace, "shard", "work_items_total"),
			"Work items executed by the shard worker",
			[]string{"shard"}, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.queueDepth
	ch <- c.keys
	ch <- c.executed
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	for _, s := range c.source.Stats() {
		label := strconv.Itoa(s.Index)
		ch <- prometheus.MustNewConstMetric(c.queueDepth, prometheus.GaugeValue, float64(s.QueueDepth), label)
		ch <- prometheus.MustNewConstMetric(c.keys, prometheus.GaugeValue, float64(s.Keys), label)
		ch <- prometheus.MustNewConstMetric(c.executed, prometheus.CounterValue, float64(s.Executed), label)
	}
}
