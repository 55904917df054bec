package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"vision-infra/internal/metrics"
)

// MetricsConfig holds configuration for the metrics middleware
type MetricsConfig struct {
	// SkipPaths are path prefixes left out of the request metrics.
	SkipPaths []string
}

// DefaultMetricsConfig leaves Prometheus scrapes out of the request
// metrics.
func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{SkipPaths: []string{"/metrics"}}
}

func (c MetricsConfig) skips(path string) bool {
	for _, prefix := range c.SkipPaths {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// Metrics returns middleware recording request count, latency and
// in-flight requests.
func Metrics(config MetricsConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if config.skips(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			metrics.HTTPRequestsInFlight.Inc()
			defer metrics.HTTPRequestsInFlight.Dec()

			start := time.Now()
			rec := newStatusRecorder(w)
			next.ServeHTTP(rec, r)

			path := normalizePath(r.URL.Path)
			metrics.HTTPRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(rec.status)).Inc()
			metrics.HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
		})
	}
}

// knownPaths are the routes metrics.NewRouter serves. Anything else is
// recorded as "other" to bound label cardinality.
var knownPaths = map[string]bool{
	"/metrics": true,
	"/healthz": true,
	"/livez":   true,
	"/readyz":  true,
}

func normalizePath(path string) string {
	if knownPaths[path] {
		return path
	}
	return "other"
}

// Chain wraps h so that the first middleware is outermost.
func Chain(h http.Handler, middlewares ...func(http.Handler) http.Handler) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}
