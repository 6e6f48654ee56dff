package restapi

import (
	"net/http"
	"strings"

	"nextstop.transit.dev/internal/appconf"
)

const (
	apiContentSecurityPolicy = "default-src 'none'; frame-ancestors 'none';"
	// The debug pages carry an inline stylesheet.
	debugContentSecurityPolicy = "default-src 'none'; style-src 'unsafe-inline'; frame-ancestors 'none';"
)

// WithSecurityHeaders wraps the given handler with security headers middleware
func (api *RestAPI) WithSecurityHeaders(handler http.Handler) http.Handler {
	return securityHeaders(handler, api.Config.Env == appconf.Production)
}

// securityHeaders adds the security headers every response carries. HSTS is only sent when
// the server runs in production behind TLS.
func securityHeaders(next http.Handler, strictTransport bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		if strictTransport {
			h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		if strings.HasPrefix(r.URL.Path, "/debug/") {
			h.Set("Content-Security-Policy", debugContentSecurityPolicy)
		} else {
			h.Set("Content-Security-Policy", apiContentSecurityPolicy)
		}

		// Riders' browsers call the API from any origin; it is read-only.
		if r.Header.Get("Origin") != "" {
			h.Set("Access-Control-Allow-Origin", "*")
			h.Set("Access-Control-Allow-Methods", "GET, OPTIONS")
			h.Set("Access-Control-Allow-Headers", "Content-Type")
			h.Set("Access-Control-Max-Age", "86400")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
