package restapi

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nextstop.transit.dev/internal/appconf"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("test response"))
	})
}

func TestSecurityHeaders(t *testing.T) {
	tests := []struct {
		name            string
		path            string
		strictTransport bool
		wantCSP         string
		wantHSTS        string
	}{
		{
			name:    "api response",
			path:    "/api/where/current-time.json",
			wantCSP: "default-src 'none'; frame-ancestors 'none';",
		},
		{
			name:    "debug page allows inline styles",
			path:    "/debug/",
			wantCSP: "default-src 'none'; style-src 'unsafe-inline'; frame-ancestors 'none';",
		},
		{
			name:            "production sends HSTS",
			path:            "/api/where/current-time.json",
			strictTransport: true,
			wantCSP:         "default-src 'none'; frame-ancestors 'none';",
			wantHSTS:        "max-age=31536000; includeSubDomains",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			securityHeaders(okHandler(), tt.strictTransport).ServeHTTP(rec, httptest.NewRequest("GET", tt.path, nil))

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "test response", rec.Body.String())

			headers := rec.Header()
			assert.Equal(t, "nosniff", headers.Get("X-Content-Type-Options"))
			assert.Equal(t, "DENY", headers.Get("X-Frame-Options"))
			assert.Equal(t, "strict-origin-when-cross-origin", headers.Get("Referrer-Policy"))
			assert.Equal(t, tt.wantCSP, headers.Get("Content-Security-Policy"))
			assert.Equal(t, tt.wantHSTS, headers.Get("Strict-Transport-Security"))
		})
	}
}

func TestSecurityHeadersWithCORS(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/where/current-time.json", nil)
	req.Header.Set("Origin", "https://example.com")
	rec := httptest.NewRecorder()

	securityHeaders(okHandler(), false).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	headers := rec.Header()
	assert.Equal(t, "*", headers.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "GET, OPTIONS", headers.Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "Content-Type", headers.Get("Access-Control-Allow-Headers"))
	assert.Equal(t, "86400", headers.Get("Access-Control-Max-Age"))
}

func TestSecurityHeadersOPTIONSRequest(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("Handler should not be called for OPTIONS request")
	})

	req := httptest.NewRequest("OPTIONS", "/api/where/current-time.json", nil)
	req.Header.Set("Origin", "https://example.com")
	rec := httptest.NewRecorder()

	securityHeaders(handler, false).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestSecurityHeadersNoCORSWithoutOrigin(t *testing.T) {
	rec := httptest.NewRecorder()
	securityHeaders(okHandler(), false).ServeHTTP(rec, httptest.NewRequest("GET", "/api/where/current-time.json", nil))

	headers := rec.Header()
	assert.Empty(t, headers.Get("Access-Control-Allow-Origin"))
	assert.Empty(t, headers.Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "nosniff", headers.Get("X-Content-Type-Options"))
}

func TestWithSecurityHeaders(t *testing.T) {
	api := createTestApi(t)

	rec := httptest.NewRecorder()
	api.WithSecurityHeaders(okHandler()).ServeHTTP(rec, httptest.NewRequest("GET", "/api/where/current-time.json", nil))
	assert.Empty(t, rec.Header().Get("Strict-Transport-Security"))

	api.Config.Env = appconf.Production
	secureHandler := api.WithSecurityHeaders(okHandler())
	require.NotNil(t, secureHandler)

	rec = httptest.NewRecorder()
	secureHandler.ServeHTTP(rec, httptest.NewRequest("GET", "/api/where/current-time.json", nil))
	assert.Equal(t, "max-age=31536000; includeSubDomains", rec.Header().Get("Strict-Transport-Security"))
}
