// Package metrics holds the Prometheus collectors exported at /metrics.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	OperationsTotal          = "beamnode_operations_total"
	OperationDurationSeconds = "beamnode_operation_duration_seconds"
	BatchesTotal             = "beamnode_batches_total"
	HTTPRequestTotal         = "beamnode_http_requests_total"
)

var (
	PromCounters = map[string]*prometheus.CounterVec{
		OperationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: OperationsTotal,
			Help: "Count of dispatched operations by outcome",
		}, []string{"resource", "operation", "outcome"}),
		BatchesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: BatchesTotal,
			Help: "Count of executed batches",
		}, []string{"mode", "outcome"}),
		HTTPRequestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: HTTPRequestTotal,
			Help: "Count of all HTTP requests",
		}, []string{"method", "status_code"}),
	}

	PromHistograms = map[string]*prometheus.HistogramVec{
		OperationDurationSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    OperationDurationSeconds,
			Help:    "Duration of dispatched operations",
			Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60, 120},
		}, []string{"resource", "operation"}),
	}

	registerOnce sync.Once
)

// MustRegister registers every collector with the default registry. Safe to
// call more than once.
func MustRegister() {
	registerOnce.Do(func() {
		for _, c := range PromCounters {
			prometheus.MustRegister(c)
		}
		for _, h := range PromHistograms {
			prometheus.MustRegister(h)
		}
	})
}

// ObserveOperation records one dispatched item.
func ObserveOperation(resource, operation, outcome string, seconds float64) {
	PromCounters[OperationsTotal].WithLabelValues(resource, operation, outcome).Inc()
	PromHistograms[OperationDurationSeconds].WithLabelValues(resource, operation).Observe(seconds)
}

// ObserveBatch records a finished batch.
func ObserveBatch(continueOnFail bool, outcome string) {
	mode := "abort"
	if continueOnFail {
		mode = "continue"
	}
	PromCounters[BatchesTotal].WithLabelValues(mode, outcome).Inc()
}
