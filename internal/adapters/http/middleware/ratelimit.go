package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"
)

// Sweeper settings for the per-client buckets.
const (
	sweepEvery = time.Minute
	idleAfter  = 5 * time.Minute
)

// RateLimiter gives each client address a bucket of burst tokens that refills continuously.
type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*bucket
	burst    float64
	perToken time.Duration
	now      func() time.Time
}

type bucket struct {
	tokens float64
	seen   time.Time
}

// NewRateLimiter allows rate requests per interval for each client.
// Idle buckets are swept until ctx is cancelled.
// PRE: rate > 0, interval > 0
func NewRateLimiter(ctx context.Context, rate int, interval time.Duration) *RateLimiter {
	rl := &RateLimiter{
		visitors: make(map[string]*bucket),
		burst:    float64(rate),
		perToken: interval / time.Duration(rate),
		now:      time.Now,
	}
	go rl.sweepUntil(ctx)
	return rl
}

func (rl *RateLimiter) sweepUntil(ctx context.Context) {
	tick := time.NewTicker(sweepEvery)
	defer tick.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-tick.C:
			rl.sweep(idleAfter)
		}
	}
}

// sweep forgets clients not seen for longer than idle.
func (rl *RateLimiter) sweep(idle time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	cutoff := rl.now().Add(-idle)
	for ip, b := range rl.visitors {
		if b.seen.Before(cutoff) {
			delete(rl.visitors, ip)
		}
	}
}

// Allow spends one token from ip's bucket.
// POST: false means the bucket holds less than one token; nothing is spent
func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	b, ok := rl.visitors[ip]
	if !ok {
		b = &bucket{tokens: rl.burst, seen: now}
		rl.visitors[ip] = b
	}
	if elapsed := now.Sub(b.seen); elapsed > 0 && rl.perToken > 0 {
		b.tokens = min(rl.burst, b.tokens+float64(elapsed)/float64(rl.perToken))
	}
	b.seen = now
	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

// RateLimit answers 429 with a Retry-After hint once a client's bucket is empty.
func RateLimit(limiter *RateLimiter) func(http.Handler) http.Handler {
	retryAfter := strconv.Itoa(max(1, int(limiter.perToken.Round(time.Second)/time.Second)))
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := ClientIP(r)
			if !limiter.Allow(ip) {
				slog.Warn("rate_limited", "ip", ip, "method", r.Method, "path", r.URL.Path)
				w.Header().Set("Retry-After", retryAfter)
				http.Error(w, "too many requests", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
