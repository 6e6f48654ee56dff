package restapi

import (
	"log/slog"
	"net/http"
	"time"

	"nextstop.transit.dev/internal/logging"
)

// responseWriter records the status and body size a handler produced.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	bytes      int
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.bytes += n
	return n, err
}

// NewRequestLoggingMiddleware logs every request once it has been served and hands
// downstream handlers a logger tagged with the request path.
func NewRequestLoggingMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	logger = logging.OrDefault(logger)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			requestLogger := logger.With(slog.String("path", r.URL.Path))
			r = r.WithContext(logging.WithLogger(r.Context(), requestLogger))

			wrapped := newResponseWriter(w)
			next.ServeHTTP(wrapped, r)

			// The query string carries the API key, so only the path is logged.
			logging.LogHTTPRequest(logger,
				r.Method,
				r.URL.Path,
				wrapped.statusCode,
				float64(time.Since(start).Microseconds())/1e3,
				slog.Int("bytes", wrapped.bytes),
				slog.String("user_agent", r.Header.Get("User-Agent")),
				slog.String("component", "http_server"))
		})
	}
}
