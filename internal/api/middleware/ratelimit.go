package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"

	"pathlight-utils/internal/config"
	"pathlight-utils/pkg/models"
)

// userLimiter tracks the rate limiter for a single user
type userLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// UserRateLimiter limits analysis requests per user. The user key comes from
// the X-User-ID header, falling back to the client IP for unauthenticated
// callers.
type UserRateLimiter struct {
	config   *config.Config
	limiters map[string]*userLimiter
	mu       sync.Mutex
	stop     chan struct{}
}

// NewUserRateLimiter creates a per-user rate limiter and starts its idle
// cleanup loop
func NewUserRateLimiter(cfg *config.Config) *UserRateLimiter {
	rl := &UserRateLimiter{
		config:   cfg,
		limiters: make(map[string]*userLimiter),
		stop:     make(chan struct{}),
	}

	go rl.cleanupRoutine()

	return rl
}

// Middleware rejects requests that exceed the configured per-user rate
func (rl *UserRateLimiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := c.Request().Header.Get("X-User-ID")
			if key == "" {
				key = c.RealIP()
			}

			if !rl.allow(key) {
				requestID, _ := c.Get("request_id").(string)
				return c.JSON(http.StatusTooManyRequests, models.ErrorResponse{
					Error:     "rate_limited",
					Message:   "Too many requests, slow down",
					RequestID: requestID,
					Timestamp: time.Now(),
				})
			}

			return next(c)
		}
	}
}

// allow checks the limiter for the given key, creating it on first use
func (rl *UserRateLimiter) allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	ul, ok := rl.limiters[key]
	if !ok {
		perSecond := rate.Limit(float64(rl.config.RateLimit.RequestsPerMinute) / 60.0)
		ul = &userLimiter{
			limiter: rate.NewLimiter(perSecond, rl.config.RateLimit.Burst),
		}
		rl.limiters[key] = ul
	}
	ul.lastSeen = time.Now()

	return ul.limiter.Allow()
}

// cleanupRoutine drops limiters that have been idle long enough to refill
func (rl *UserRateLimiter) cleanupRoutine() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-10 * time.Minute)
			rl.mu.Lock()
			for key, ul := range rl.limiters {
				if ul.lastSeen.Before(cutoff) {
					delete(rl.limiters, key)
				}
			}
			rl.mu.Unlock()
		}
	}
}

// Stop terminates the cleanup loop
func (rl *UserRateLimiter) Stop() {
	close(rl.stop)
}
