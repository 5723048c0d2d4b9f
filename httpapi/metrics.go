package httpapi

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var operationDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "timewarp_operation_duration_seconds",
		Help:    "Latency of bucketing operations, partitioned by operation name.",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"operation"},
)

func init() {
	prometheus.MustRegister(operationDuration)
}

// observeDuration records how long op took, starting from start.
func observeDuration(op string, start time.Time) {
	operationDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

// metricsHandler exposes the process's registered prometheus metrics.
func metricsHandler() http.Handler {
	return promhttp.Handler()
}
