package middleware

import (
	"net/http"
	"time"
)

// Logging logs every request once it has been served.
func (m *Middleware) Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := newStatusRecorder(w)

		next.ServeHTTP(rw, r)

		args := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.status,
			"duration_ms", time.Since(start).Milliseconds(),
			"remote", r.RemoteAddr,
		}
		if rw.status >= http.StatusInternalServerError {
			m.log.Warn(r.Context(), "request failed", args...)
			return
		}
		m.log.Info(r.Context(), "request completed", args...)
	})
}
