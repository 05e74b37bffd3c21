// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Result label values.
const (
	ResultOK    = "ok"
	ResultError = "error"
)

var (
	// HTTP
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ffs_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ffs_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60}, // streams run long
		},
		[]string{"method", "route"},
	)

	// Event streams
	ActiveStreams = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ffs_active_streams",
			Help: "Current number of open movie event streams",
		},
	)

	StreamEventsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ffs_stream_events_total",
			Help: "Total number of movie events written to streams",
		},
	)

	// Seed and sync
	SeedMoviesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ffs_seed_movies_total",
			Help: "Total number of seed movie saves by result",
		},
		[]string{"result"},
	)

	SyncRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ffs_sync_runs_total",
			Help: "Total number of catalog export runs by result",
		},
		[]string{"result"},
	)
)

// RecordHTTPRequest records one completed HTTP request.
func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// TrackStream adjusts the active stream gauge.
func TrackStream(open bool) {
	if open {
		ActiveStreams.Inc()
	} else {
		ActiveStreams.Dec()
	}
}

func RecordStreamEvent() {
	StreamEventsTotal.Inc()
}

// RecordSeedMovie counts one seed save attempt.
func RecordSeedMovie(err error) {
	SeedMoviesTotal.WithLabelValues(result(err)).Inc()
}

// RecordSyncRun counts one export run.
func RecordSyncRun(err error) {
	SyncRunsTotal.WithLabelValues(result(err)).Inc()
}

func result(err error) string {
	if err != nil {
		return ResultError
	}
	return ResultOK
}
