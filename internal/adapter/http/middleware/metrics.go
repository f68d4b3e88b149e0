package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)
)

// Metrics middleware records HTTP metrics.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		httpRequestsInFlight.Inc()
		defer httpRequestsInFlight.Dec()

		wrapped := &metricsRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		duration := time.Since(start).Seconds()
		path := normalizePath(r.URL.Path)

		httpRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(wrapped.statusCode)).Inc()
		httpRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
	})
}

type metricsRecorder struct {
	http.ResponseWriter

	statusCode int
}

func (r *metricsRecorder) WriteHeader(code int) {
	r.statusCode = code
	r.ResponseWriter.WriteHeader(code)
}

// Collection prefixes whose next path segment is a resource ID.
var idPrefixes = []string{
	"/api/v1/transactions/",
	"/api/v1/plans/",
	"/api/v1/wallets/",
	"/api/v1/admin/transactions/",
	"/api/v1/admin/users/",
	"/api/v1/admin/system-wallets/",
}

// Static child segments that are routes, not resource IDs.
var staticSegments = map[string]bool{
	"invest":   true,
	"withdraw": true,
	"deposit":  true,
	"volume":   true,
	"system":   true,
	"unread":   true,
	"read-all": true,
}

// normalizePath collapses resource IDs so metric label cardinality
// stays bounded.
// /api/v1/transactions/01ABC123 -> /api/v1/transactions/:id
func normalizePath(path string) string {
	for _, prefix := range idPrefixes {
		if !strings.HasPrefix(path, prefix) || len(path) == len(prefix) {
			continue
		}

		rest := path[len(prefix):]
		suffix := ""
		segment := rest
		if i := strings.IndexByte(rest, '/'); i >= 0 {
			suffix = rest[i:]
			segment = rest[:i]
		}

		if staticSegments[segment] {
			return path
		}

		return prefix + ":id" + suffix
	}

	return path
}
