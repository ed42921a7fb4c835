package middleware

import (
	"context"
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/fraudguard/fraudguard/pkg/httpserver"
)

// clientIdleTTL is how long an unused client bucket is kept.
const clientIdleTTL = 10 * time.Minute

type clientBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// PerClientRateLimiter keeps one token bucket per client key. Each bucket
// holds a full minute of requests and refills continuously.
type PerClientRateLimiter struct {
	mu        sync.Mutex
	clients   map[string]*clientBucket
	perMinute int
	now       func() time.Time
}

// NewPerClientRateLimiter allows each client perMinute requests per minute.
func NewPerClientRateLimiter(perMinute int) *PerClientRateLimiter {
	return &PerClientRateLimiter{
		clients:   make(map[string]*clientBucket),
		perMinute: perMinute,
		now:       time.Now,
	}
}

// Allow reports whether key may make one more request now.
func (p *PerClientRateLimiter) Allow(key string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now()
	b, ok := p.clients[key]
	if !ok {
		b = &clientBucket{
			limiter: rate.NewLimiter(rate.Limit(float64(p.perMinute)/60), p.perMinute),
		}
		p.clients[key] = b
	}
	b.lastSeen = now
	return b.limiter.AllowN(now, 1)
}

// Sweep drops buckets idle for longer than the idle TTL and returns how
// many were removed. A dropped client starts again with a full bucket.
func (p *PerClientRateLimiter) Sweep() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	cutoff := p.now().Add(-clientIdleTTL)
	removed := 0
	for key, b := range p.clients {
		if b.lastSeen.Before(cutoff) {
			delete(p.clients, key)
			removed++
		}
	}
	return removed
}

// Run sweeps idle buckets every interval until ctx is cancelled.
func (p *PerClientRateLimiter) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.Sweep()
		}
	}
}

// retryAfter is the refill time of one token, in whole seconds.
func (p *PerClientRateLimiter) retryAfter() int {
	if p.perMinute <= 0 {
		return 60
	}
	return int(math.Ceil(60 / float64(p.perMinute)))
}

// PerClientRateLimitMiddleware rate limits by client IP. Health and metrics
// endpoints are never limited.
func PerClientRateLimitMiddleware(limiter *PerClientRateLimiter) func(http.Handler) http.Handler {
	exempt := make(map[string]struct{}, len(httpserver.PublicPaths))
	for _, p := range httpserver.PublicPaths {
		exempt[p] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := exempt[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}
			if !limiter.Allow(ClientIP(r)) {
				w.Header().Set("Retry-After", strconv.Itoa(limiter.retryAfter()))
				httpserver.WriteError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ClientIP returns the request's remote IP without the port. Run it behind
// chi's RealIP middleware to honour proxy headers.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
