// File: utils/metrics.go
package utils

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all prometheus metrics for outbound delivery.
type Metrics struct {
	GatewaySends   *prometheus.CounterVec
	QueueEnqueued  prometheus.Counter
	QueueExhausted prometheus.Counter
	SweepRuns      prometheus.Counter
	SweepDuration  prometheus.Histogram
}

// NewMetrics creates metrics registered on the default registry.
func NewMetrics(namespace string) *Metrics {
	return NewMetricsFor(namespace, prometheus.DefaultRegisterer)
}

// NewMetricsFor creates metrics on an explicit registerer, so tests can use
// a throwaway registry per run.
func NewMetricsFor(namespace string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		GatewaySends: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "gateway_sends_total",
			Help:      "The total number of WhatsApp gateway send attempts",
		}, []string{"kind", "outcome"}),
		QueueEnqueued: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "queue_items_enqueued_total",
			Help:      "The total number of messages parked in the outbound queue",
		}),
		QueueExhausted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "queue_items_exhausted_total",
			Help:      "The total number of queue items that ran out of retries",
		}),
		SweepRuns: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "queue_sweeps_total",
			Help:      "The total number of queue sweep runs",
		}),
		SweepDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "queue_sweep_duration_seconds",
			Help:      "Time taken by a queue sweep run",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}
