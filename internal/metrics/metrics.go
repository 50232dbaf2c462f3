// Package metrics holds the Prometheus collectors for the compendium service
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "rpg_compendium"

// Remote API call kinds
const (
	KindIndex  = "index"
	KindDetail = "detail"
)

var (
	apiRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_requests_total",
			Help:      "Total number of requests made to the D&D 5e API",
		},
		[]string{"resource", "kind", "code"},
	)

	apiRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "api_request_duration_seconds",
			Help:      "D&D 5e API request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"resource", "kind"},
	)

	invocationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_invocations_total",
			Help:      "Search pipeline invocations by outcome",
		},
		[]string{"feature", "operation", "status"},
	)

	fanoutSize = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_fanout_size",
			Help:      "Number of detail records fetched per invocation",
			Buckets:   []float64{0, 1, 2, 5, 10, 15, 20},
		},
		[]string{"feature", "operation"},
	)
)

func init() {
	prometheus.MustRegister(apiRequestsTotal)
	prometheus.MustRegister(apiRequestDuration)
	prometheus.MustRegister(invocationsTotal)
	prometheus.MustRegister(fanoutSize)
}

// ObserveAPIRequest records one remote API call. code is the error code
// string, "OK" on success.
func ObserveAPIRequest(resource, kind, code string, elapsed time.Duration) {
	apiRequestsTotal.WithLabelValues(resource, kind, code).Inc()
	apiRequestDuration.WithLabelValues(resource, kind).Observe(elapsed.Seconds())
}

// ObserveInvocation records the outcome of a search or preload
func ObserveInvocation(feature, operation, status string) {
	invocationsTotal.WithLabelValues(feature, operation, status).Inc()
}

// ObserveFanout records how many detail fetches an invocation issued
func ObserveFanout(feature, operation string, n int) {
	fanoutSize.WithLabelValues(feature, operation).Observe(float64(n))
}
