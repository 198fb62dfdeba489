package middleware

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/vetcore/clinic-api/internal/api/metrics"
)

const sweepInterval = 5 * time.Minute

type bucket struct {
	count   int
	resetAt time.Time
}

// RateLimiter is a fixed-window per-IP admission counter guarding the
// unauthenticated credential endpoints. The window is fixed, not sliding: a
// client can burst up to 2×max across a window boundary. That approximation
// is accepted; the limiter exists to bound abuse, not to meter precisely.
//
// State is process-local. IP addresses are an unbounded key domain, so a
// janitor sweeps expired buckets to keep the map from growing without limit.
type RateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	max     int
	window  time.Duration
	now     func() time.Time
}

func NewRateLimiter(max int, window time.Duration) *RateLimiter {
	if max <= 0 {
		max = 10
	}
	if window <= 0 {
		window = time.Minute
	}
	return &RateLimiter{
		buckets: make(map[string]*bucket),
		max:     max,
		window:  window,
		now:     time.Now,
	}
}

// Allow records one request from ip. When the ceiling is exceeded it returns
// false and the number of seconds until the window resets.
func (rl *RateLimiter) Allow(ip string) (retryAfter int64, ok bool) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	b, exists := rl.buckets[ip]
	if !exists || now.After(b.resetAt) {
		b = &bucket{resetAt: now.Add(rl.window)}
		rl.buckets[ip] = b
	}

	b.count++
	if b.count > rl.max {
		secs := int64(b.resetAt.Sub(now).Seconds())
		if secs < 1 {
			secs = 1
		}
		return secs, false
	}
	return 0, true
}

// Start launches the janitor goroutine. It stops when ctx is cancelled.
func (rl *RateLimiter) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				rl.sweep()
			}
		}
	}()
}

func (rl *RateLimiter) sweep() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	for ip, b := range rl.buckets {
		if now.After(b.resetAt) {
			delete(rl.buckets, ip)
		}
	}
}

// Middleware rejects over-limit requests with 429, a Retry-After header and
// a retry_after hint in the body.
func (rl *RateLimiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			retryAfter, ok := rl.Allow(c.RealIP())
			if !ok {
				metrics.RateLimitedTotal.WithLabelValues(c.Path()).Inc()
				c.Response().Header().Set("Retry-After", strconv.FormatInt(retryAfter, 10))
				return c.JSON(http.StatusTooManyRequests, map[string]interface{}{
					"error":       "too many requests",
					"retry_after": retryAfter,
				})
			}
			return next(c)
		}
	}
}
