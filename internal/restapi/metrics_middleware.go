package restapi

import (
	"net/http"
	"time"

	"nextstop.transit.dev/internal/metrics"
)

// NewMetricsMiddleware counts and times requests per route. route names the request's
// registered path.
func NewMetricsMiddleware(collector *metrics.Collector, route func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if collector == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := newResponseWriter(w)

			next.ServeHTTP(wrapped, r)

			collector.ObserveRequest(r.Method, route(r), wrapped.statusCode, time.Since(start))
		})
	}
}
