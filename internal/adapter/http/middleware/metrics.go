package middleware

import (
	"net/http"
	"time"

	"github.com/Temutjin2k/bookshelf-auth/pkg/metrics"
)

// Metrics records request count, latency and in-flight requests, labelled by route pattern.
func (m *Middleware) Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/metrics" {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		inFlight := metrics.HttpRequestsInFlight.WithLabelValues(m.service)
		inFlight.Inc()
		defer inFlight.Dec()

		rw := newStatusRecorder(w)
		next.ServeHTTP(rw, r)

		// ServeMux sets Pattern on the request it routed; raw paths would explode label cardinality
		path := r.Pattern
		if path == "" {
			path = "unmatched"
		}
		metrics.RecordHTTPMetrics(m.service, r.Method, path, rw.status, time.Since(start))
	})
}
