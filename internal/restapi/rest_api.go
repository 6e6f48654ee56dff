package restapi

import (
	"time"

	"nextstop.transit.dev/internal/app"
)

type RestAPI struct {
	*app.Application
	rateLimiter *RateLimitMiddleware
}

// NewRestAPI wires the handlers to application. Its per-key rate limiter runs a cleanup
// goroutine until Shutdown.
func NewRestAPI(application *app.Application) *RestAPI {
	cfg := application.Config
	return &RestAPI{
		Application: application,
		rateLimiter: NewRateLimitMiddleware(cfg.RateLimit, time.Second, cfg.RateLimitExemptKeys...),
	}
}

// Shutdown stops the rate limiter's background cleanup.
func (api *RestAPI) Shutdown() {
	if api.rateLimiter != nil {
		api.rateLimiter.Stop()
	}
}
