// Package middleware provides HTTP middleware for the API endpoints.
package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
	"github.com/finance-tracker/ledger/internal/integration/entrypoint/dto"
)

const (
	defaultUploadsPerWindow = 5
	defaultUploadWindow     = time.Minute
)

// uploadWindow counts requests of one caller in a fixed window.
type uploadWindow struct {
	used    int
	resetAt time.Time
}

// RateLimiter throttles expensive endpoints such as spreadsheet uploads.
// Authenticated callers are counted per user; anonymous ones per client IP.
type RateLimiter struct {
	mu      sync.Mutex
	windows map[string]*uploadWindow
	limit   int
	window  time.Duration
	now     func() time.Time
}

// NewRateLimiter creates a limiter allowing five requests per minute.
func NewRateLimiter() *RateLimiter {
	return NewRateLimiterWithConfig(defaultUploadsPerWindow, defaultUploadWindow)
}

// NewRateLimiterWithConfig creates a limiter allowing limit requests per window.
// A non-positive limit disables limiting.
func NewRateLimiterWithConfig(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		windows: make(map[string]*uploadWindow),
		limit:   limit,
		window:  window,
		now:     time.Now,
	}
}

// Middleware returns a Gin handler that rejects callers over their quota with 429.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.limit <= 0 {
			c.Next()
			return
		}

		remaining, retryAfter, ok := rl.take(callerKey(c))
		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		if !ok {
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.Fail(
				"Too many uploads. Please try again later.",
				string(domainerror.ErrCodeRateLimited),
				"",
			))
			return
		}

		c.Next()
	}
}

func callerKey(c *gin.Context) string {
	if userID, ok := GetUserIDFromContext(c); ok {
		return "user:" + userID.String()
	}
	return "ip:" + c.ClientIP()
}

// take consumes one request from key's window. It returns the requests left
// in the window and, when the quota is spent, how long until it resets.
func (rl *RateLimiter) take(key string) (int, time.Duration, bool) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	w, ok := rl.windows[key]
	if !ok || !now.Before(w.resetAt) {
		w = &uploadWindow{resetAt: now.Add(rl.window)}
		rl.windows[key] = w
	}

	if w.used >= rl.limit {
		return 0, w.resetAt.Sub(now), false
	}
	w.used++
	return rl.limit - w.used, 0, true
}

// Reset forgets every caller's window.
func (rl *RateLimiter) Reset() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.windows = make(map[string]*uploadWindow)
}

// Cleanup drops windows that have already reset. The API calls it on a ticker.
func (rl *RateLimiter) Cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	for key, w := range rl.windows {
		if !now.Before(w.resetAt) {
			delete(rl.windows, key)
		}
	}
}
