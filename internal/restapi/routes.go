package restapi

import (
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"
)

type handlerFunc func(w http.ResponseWriter, r *http.Request)

func validateAPIKey(api *RestAPI, finalHandler handlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if api.RequestHasInvalidAPIKey(r) {
			api.invalidAPIKeyResponse(w, r)
			return
		}
		finalHandler(w, r)
	})
}

func (api *RestAPI) SetRoutes(router *httprouter.Router) {
	router.Handler(http.MethodGet, "/api/where/current-time.json", validateAPIKey(api, api.currentTimeHandler))
	router.Handler(http.MethodGet, "/api/where/stops-for-location.json", validateAPIKey(api, api.stopsForLocationHandler))
	router.Handler(http.MethodGet, "/api/where/stop/:id", validateAPIKey(api, api.stopHandler))
	router.Handler(http.MethodGet, "/api/where/active-services.json", validateAPIKey(api, api.activeServicesHandler))
	router.Handler(http.MethodGet, "/api/where/departures-for-stop/:id", validateAPIKey(api, api.departuresForStopHandler))
	router.Handler(http.MethodGet, "/api/where/departures-for-location.json", validateAPIKey(api, api.departuresForLocationHandler))
	router.Handler(http.MethodGet, "/metrics", api.Metrics.Handler())

	router.NotFound = http.HandlerFunc(api.sendNotFound)
}

// NewHandler routes the API, applies mounts (such as the debug UI) and wraps the result in the
// middleware chain.
func (api *RestAPI) NewHandler(mounts ...func(*httprouter.Router)) http.Handler {
	router := httprouter.New()
	api.SetRoutes(router)
	for _, mount := range mounts {
		mount(router)
	}

	var handler http.Handler = router
	handler = api.rateLimitHandler(handler)
	handler = CompressionMiddleware(handler)
	handler = api.WithSecurityHeaders(handler)
	handler = NewMetricsMiddleware(api.Metrics, routeTemplate(router))(handler)
	handler = NewRequestLoggingMiddleware(api.Logger)(handler)
	return handler
}

func (api *RestAPI) rateLimitHandler(next http.Handler) http.Handler {
	if api.rateLimiter == nil {
		return next
	}
	return api.rateLimiter.Handler(next)
}

// routeTemplate maps a request to its registered path so stop ids don't become metric labels.
func routeTemplate(router *httprouter.Router) func(*http.Request) string {
	return func(r *http.Request) string {
		handle, params, _ := router.Lookup(r.Method, r.URL.Path)
		if handle == nil {
			return "unmatched"
		}
		path := r.URL.Path
		for i := len(params) - 1; i >= 0; i-- {
			path = strings.TrimSuffix(path, params[i].Value) + ":" + params[i].Key
		}
		return path
	}
}
