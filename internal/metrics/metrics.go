// Package metrics exposes the Prometheus counters and histograms the
// partition worker and matching pipeline update, following the
// singleton-via-sync.Once Collector shape used across the domain's
// trading services.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector holds all matcher metrics.
type Collector struct {
	OrdersProcessed    prometheus.Counter
	MatchEventsEmitted prometheus.Counter
	PayloadsDropped    prometheus.Counter
	ProcessLatency     prometheus.Histogram
	PublishLatency     prometheus.Histogram
}

var (
	collector     *Collector
	collectorOnce sync.Once
)

// NewCollector returns the process-wide metrics collector, registering
// it with the default Prometheus registry on first call.
func NewCollector() *Collector {
	collectorOnce.Do(func() {
		collector = &Collector{
			OrdersProcessed: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: "shardbook",
				Subsystem: "matcher",
				Name:      "orders_processed_total",
				Help:      "Number of orders successfully run through the matching engine.",
			}),
			MatchEventsEmitted: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: "shardbook",
				Subsystem: "matcher",
				Name:      "match_events_emitted_total",
				Help:      "Number of match events published to the output topic.",
			}),
			PayloadsDropped: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: "shardbook",
				Subsystem: "matcher",
				Name:      "payloads_dropped_total",
				Help:      "Number of input messages skipped for being empty or malformed.",
			}),
			ProcessLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
				Namespace: "shardbook",
				Subsystem: "matcher",
				Name:      "process_order_seconds",
				Help:      "Latency of a single ProcessOrder call.",
				Buckets:   prometheus.DefBuckets,
			}),
			PublishLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
				Namespace: "shardbook",
				Subsystem: "matcher",
				Name:      "publish_seconds",
				Help:      "Latency of publishing one match event to the bus.",
				Buckets:   prometheus.DefBuckets,
			}),
		}
		prometheus.MustRegister(
			collector.OrdersProcessed,
			collector.MatchEventsEmitted,
			collector.PayloadsDropped,
			collector.ProcessLatency,
			collector.PublishLatency,
		)
	})
	return collector
}
