package middleware

import (
	"net/http"
	"time"

	"github.com/Temutjin2k/bus-tracker/pkg/metrics"
)

const unmatchedPath = "unmatched"

// Metrics records HTTP metrics. Paths are labelled by the matched mux pattern to keep ids out of labels.
func (m *Middleware) Metrics(serviceName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/metrics" {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			metrics.HttpRequestsInFlight.WithLabelValues(serviceName).Inc()
			defer metrics.HttpRequestsInFlight.WithLabelValues(serviceName).Dec()

			rw := &statusRecorder{ResponseWriter: w}

			next.ServeHTTP(rw, r)

			path := r.Pattern
			if path == "" {
				path = unmatchedPath
			}
			metrics.RecordHTTPMetrics(serviceName, r.Method, path, rw.Status(), time.Since(start))
		})
	}
}
