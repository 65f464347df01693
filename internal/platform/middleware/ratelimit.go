// Package middleware holds the net/http middleware shared by the services:
// Redis rate limiting and response caching, and request tracing.
package middleware

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tair/lumina-storefront/internal/platform/web"
	"github.com/tair/lumina-storefront/pkg/logger"
)

// SessionHeader identifies the browser session of a request.
const SessionHeader = "X-Session-ID"

// RateLimiter implements sliding window rate limiting using Redis
type RateLimiter struct {
	redis       *redis.Client
	maxRequests int           // Maximum requests allowed
	window      time.Duration // Time window
	now         func() time.Time
	seq         atomic.Uint64
}

// NewRateLimiter creates a new rate limiter. A nil client disables limiting.
func NewRateLimiter(redisClient *redis.Client, maxRequests int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		redis:       redisClient,
		maxRequests: maxRequests,
		window:      window,
		now:         time.Now,
	}
}

// Middleware limits requests per client IP. Redis errors let the request
// through.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rl.redis == nil || rl.maxRequests <= 0 {
			next.ServeHTTP(w, r)
			return
		}

		identifier := Identifier(r)

		allowed, remaining, resetTime, err := rl.checkLimit(r.Context(), identifier)
		if err != nil {
			logger.Error(r.Context()).
				Err(err).
				Str("identifier", identifier).
				Msg("Rate limiter error")
			// On error, allow request but log it
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rl.maxRequests))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(resetTime.Unix(), 10))

		if !allowed {
			logger.Warn(r.Context()).
				Str("identifier", identifier).
				Int("limit", rl.maxRequests).
				Msg("Rate limit exceeded")

			retryAfter := resetTime.Sub(rl.now()).Round(time.Second)
			w.Header().Set("Retry-After", strconv.Itoa(int(retryAfter.Seconds())))
			web.RespondJSON(w, http.StatusTooManyRequests, web.Response{
				Message: fmt.Sprintf("Too many requests. Try again in %v", retryAfter),
				Error:   "Rate limit exceeded",
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}

// checkLimit checks if request is within rate limit using a sorted set
// holding one member per request of the current window.
func (rl *RateLimiter) checkLimit(ctx context.Context, identifier string) (bool, int, time.Time, error) {
	key := "ratelimit:" + identifier
	now := rl.now()
	windowStart := now.Add(-rl.window)

	pipe := rl.redis.Pipeline()

	// Remove old entries outside the window
	pipe.ZRemRangeByScore(ctx, key, "0", strconv.FormatInt(windowStart.UnixNano(), 10))

	// Count requests in current window
	countCmd := pipe.ZCard(ctx, key)

	// Add current request
	pipe.ZAdd(ctx, key, redis.Z{
		Score:  float64(now.UnixNano()),
		Member: fmt.Sprintf("%d:%d", now.UnixNano(), rl.seq.Add(1)),
	})

	pipe.Expire(ctx, key, rl.window+time.Minute)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, time.Time{}, err
	}

	allowed, remaining := quota(countCmd.Val(), rl.maxRequests)
	return allowed, remaining, now.Add(rl.window), nil
}

// quota reports whether a request is allowed when count requests are already
// in the window, and how many remain after it.
func quota(count int64, maxRequests int) (bool, int) {
	remaining := maxRequests - int(count) - 1
	if remaining < 0 {
		remaining = 0
	}
	return count < int64(maxRequests), remaining
}

// Identifier returns the rate limit identity of a request: the connection's
// client IP. Client-chosen headers such as the session id are ignored.
func Identifier(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "ip:" + host
}
