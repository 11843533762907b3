// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	GatewayRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "careerlens_gateway_requests_total",
			Help: "Total number of API requests by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)

	GatewayRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "careerlens_gateway_request_duration_seconds",
			Help: "Duration of API requests in seconds",
		},
		[]string{"operation"},
	)

	LocalMutations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "careerlens_local_mutations_total",
			Help: "Optimistic local state changes by kind",
		},
		[]string{"kind"},
	)

	RemoteWriteFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "careerlens_remote_write_failures_total",
			Help: "Background remote writes that failed and were not rolled back",
		},
		[]string{"kind", "error_code"},
	)

	RemoteWritesInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "careerlens_remote_writes_in_flight",
			Help: "Number of background remote writes not yet finished",
		},
	)

	StoreLoads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "careerlens_store_loads_total",
			Help: "Listing store loads by result",
		},
		[]string{"result"},
	)

	FilterResultSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "careerlens_filter_result_size",
			Help:    "Number of records left after filtering",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100},
		},
	)
)
