// internal/common/metrics/metrics.go
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Number of HTTP requests handled, by route, method and status",
		},
		[]string{"route", "method", "status"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)

	AssetResolveTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "receipt_asset_resolve_total",
			Help: "Receipt asset resolution attempts, by source kind and outcome",
		},
		[]string{"source", "outcome"},
	)
)

// ObserveRequest records one handled HTTP request.
func ObserveRequest(route, method string, status int, elapsed time.Duration) {
	RequestsTotal.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	RequestDuration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}
