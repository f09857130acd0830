// Package metrics instruments the compression pipeline with Prometheus metrics: one
// promauto-registered vector per concern, labeled by change set so a stuck or noisy
// change set stands out on a dashboard.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds every Prometheus metric CompressingStream and Graph emit.
type Metrics struct {
	CompressionsTotal   *prometheus.CounterVec
	CompressedBatchSize *prometheus.HistogramVec

	StreamTransitions *prometheus.CounterVec
	StreamErrors      *prometheus.CounterVec

	DeleteFailuresTotal *prometheus.CounterVec

	GraphNodeCount  *prometheus.GaugeVec
	GraphCleanupRun *prometheus.CounterVec
}

// New creates and registers the metrics under namespace. An empty namespace defaults
// to "si_core".
func New(namespace string) *Metrics {
	if namespace == "" {
		namespace = "si_core"
	}

	return &Metrics{
		CompressionsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "compressions_total",
				Help:      "Total number of compress() calls by outcome kind",
			},
			[]string{"change_set_id", "kind"},
		),

		CompressedBatchSize: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "compressed_batch_size",
				Help:      "Number of requests folded into one compress() call",
				Buckets:   []float64{1, 2, 5, 10, 25, 50, 100, 250},
			},
			[]string{"change_set_id"},
		),

		StreamTransitions: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "stream_transitions_total",
				Help:      "Total CompressingStream items yielded, by outcome",
			},
			[]string{"change_set_id", "outcome"},
		),

		StreamErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "stream_errors_total",
				Help:      "Total CompressingStream failures by mode",
			},
			[]string{"change_set_id", "mode", "continues"},
		),

		DeleteFailuresTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "stream_delete_failures_total",
				Help:      "Total transport DeleteMessage failures",
			},
			[]string{"change_set_id"},
		),

		GraphNodeCount: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "graph_node_count",
				Help:      "Occupied node slots in a snapshot graph",
			},
			[]string{"change_set_id"},
		),

		GraphCleanupRun: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "graph_cleanup_runs_total",
				Help:      "Total Cleanup() invocations",
			},
			[]string{"change_set_id"},
		),
	}
}

// RecordCompression records one compress() outcome and its input size.
func (m *Metrics) RecordCompression(changeSetID, kind string, inputSize int) {
	m.CompressionsTotal.WithLabelValues(changeSetID, kind).Inc()
	m.CompressedBatchSize.WithLabelValues(changeSetID).Observe(float64(inputSize))
}

// RecordStreamItem records one yielded stream.Item, success or failure.
func (m *Metrics) RecordStreamItem(changeSetID, outcome string) {
	m.StreamTransitions.WithLabelValues(changeSetID, outcome).Inc()
}

// RecordStreamError records one stream.StreamError by its failure mode.
func (m *Metrics) RecordStreamError(changeSetID, mode string, continues bool) {
	continuesLabel := "false"
	if continues {
		continuesLabel = "true"
	}
	m.StreamErrors.WithLabelValues(changeSetID, mode, continuesLabel).Inc()
	if mode == "delete" {
		m.DeleteFailuresTotal.WithLabelValues(changeSetID).Inc()
	}
}

// RecordGraphCleanup records one Graph.Cleanup() run and the resulting node count.
func (m *Metrics) RecordGraphCleanup(changeSetID string, nodeCount int) {
	m.GraphCleanupRun.WithLabelValues(changeSetID).Inc()
	m.GraphNodeCount.WithLabelValues(changeSetID).Set(float64(nodeCount))
}
