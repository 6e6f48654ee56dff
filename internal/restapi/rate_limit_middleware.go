package restapi

import (
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"nextstop.transit.dev/internal/app"
	"nextstop.transit.dev/internal/models"
)

const noKey = "__no_key__"

// RateLimitMiddleware provides per-API-key rate limiting
type RateLimitMiddleware struct {
	limiters    map[string]*rate.Limiter
	mu          sync.RWMutex
	rateLimit   rate.Limit
	burstSize   int
	cleanupTick *time.Ticker
	exemptKeys  map[string]bool
	done        chan struct{}
	stopOnce    sync.Once
}

// NewRateLimitMiddleware creates a new rate limiting middleware.
// ratePerSecond requests are allowed per interval per API key, which is also the burst size.
// Zero blocks every request and a negative rate disables limiting.
func NewRateLimitMiddleware(ratePerSecond int, interval time.Duration, exemptKeys ...string) *RateLimitMiddleware {
	var rateLimit rate.Limit
	switch {
	case ratePerSecond < 0:
		rateLimit = rate.Inf
	case ratePerSecond == 0:
		rateLimit = 0
	default:
		rateLimit = rate.Every(interval / time.Duration(ratePerSecond))
	}

	middleware := &RateLimitMiddleware{
		limiters:    make(map[string]*rate.Limiter),
		rateLimit:   rateLimit,
		burstSize:   ratePerSecond,
		cleanupTick: time.NewTicker(5 * time.Minute),
		exemptKeys:  make(map[string]bool, len(exemptKeys)),
		done:        make(chan struct{}),
	}
	for _, key := range exemptKeys {
		middleware.exemptKeys[key] = true
	}

	go middleware.cleanup()

	return middleware
}

// getLimiter gets or creates a rate limiter for the given API key
func (rl *RateLimitMiddleware) getLimiter(apiKey string) *rate.Limiter {
	rl.mu.RLock()
	limiter, exists := rl.limiters[apiKey]
	rl.mu.RUnlock()

	if exists {
		return limiter
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	// Double-check after acquiring write lock
	if limiter, exists := rl.limiters[apiKey]; exists {
		return limiter
	}

	limiter = rate.NewLimiter(rl.rateLimit, rl.burstSize)
	rl.limiters[apiKey] = limiter

	return limiter
}

// Handler wraps next with the rate limit.
func (rl *RateLimitMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiKey := app.APIKey(r)
		if apiKey == "" {
			apiKey = noKey
		}

		if rl.exemptKeys[apiKey] || rl.rateLimit == rate.Inf {
			next.ServeHTTP(w, r)
			return
		}

		if !rl.getLimiter(apiKey).Allow() {
			rl.sendRateLimitExceeded(w)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// retryAfter is the wait until one more token is available, in whole seconds.
func (rl *RateLimitMiddleware) retryAfter() int {
	if rl.rateLimit <= 0 {
		return int(time.Hour.Seconds())
	}
	return int(math.Max(1, math.Ceil(1/float64(rl.rateLimit))))
}

// sendRateLimitExceeded sends a 429 Too Many Requests response
func (rl *RateLimitMiddleware) sendRateLimitExceeded(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Retry-After", strconv.Itoa(rl.retryAfter()))
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rl.burstSize))
	w.Header().Set("X-RateLimit-Remaining", "0")
	w.WriteHeader(http.StatusTooManyRequests)

	data := map[string]interface{}{
		"entry":      nil,
		"references": models.NewEmptyReferences(),
	}
	response := models.NewResponse(http.StatusTooManyRequests, data, "Rate limit exceeded. Please try again later.")
	_ = json.NewEncoder(w).Encode(response)
}

// cleanup periodically drops limiters that have refilled completely, i.e. keys that went idle.
func (rl *RateLimitMiddleware) cleanup() {
	for {
		select {
		case <-rl.done:
			return
		case <-rl.cleanupTick.C:
			rl.mu.Lock()
			for key, limiter := range rl.limiters {
				if limiter.Tokens() >= float64(rl.burstSize) {
					delete(rl.limiters, key)
				}
			}
			rl.mu.Unlock()
		}
	}
}

func (rl *RateLimitMiddleware) limiterCount() int {
	rl.mu.RLock()
	defer rl.mu.RUnlock()
	return len(rl.limiters)
}

// Stop stops the cleanup goroutine. It is safe to call more than once.
func (rl *RateLimitMiddleware) Stop() {
	rl.stopOnce.Do(func() {
		rl.cleanupTick.Stop()
		close(rl.done)
	})
}
