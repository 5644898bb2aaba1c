package middleware

import (
	"net/http"
	"strconv"
	"time"

	"ride-marketplace/internal/observability"

	"github.com/go-chi/chi/v5"
)

// Metrics middleware records request counts and latencies. The route
// pattern is used instead of the raw path to keep label cardinality low.
func Metrics() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(rw, r)

			path := r.URL.Path
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if pattern := rctx.RoutePattern(); pattern != "" {
					path = pattern
				}
			}

			status := strconv.Itoa(rw.statusCode)
			observability.HTTPRequestsTotal.WithLabelValues(r.Method, path, status).Inc()
			observability.HTTPRequestDuration.WithLabelValues(r.Method, path, status).Observe(time.Since(start).Seconds())
		})
	}
}
