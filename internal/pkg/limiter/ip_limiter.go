/*
Package limiter provides per-client-IP rate limiting.

Each IP gets a token bucket (rate.Limiter). A background goroutine evicts buckets
that have refilled completely, so idle visitors do not accumulate in memory.
*/
package limiter

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"rubiechat/internal/pkg/errs"
	"rubiechat/internal/pkg/logx"
	"rubiechat/internal/pkg/resp"
)

const cleanupInterval = 3 * time.Minute

// IPRateLimiter implements a concurrency-safe rate limiter keyed by client IP.
type IPRateLimiter struct {
	// name labels log lines, e.g. "auth".
	name string

	// mu protects limits.
	mu sync.RWMutex

	// limits maps a client IP to its token bucket.
	limits map[string]*rate.Limiter

	r rate.Limit
	b int

	stop     chan struct{}
	stopOnce sync.Once
}

// NewIPRateLimiter returns a limiter allowing r events per second with burst b per IP,
// and starts its cleanup goroutine. Call Stop to end it.
func NewIPRateLimiter(name string, r rate.Limit, b int) *IPRateLimiter {
	i := &IPRateLimiter{
		name:   name,
		limits: make(map[string]*rate.Limiter),
		r:      r,
		b:      b,
		stop:   make(chan struct{}),
	}

	go i.cleanUpVisitors()

	return i
}

// GetLimiter returns the bucket for ip, creating it on first use.
func (i *IPRateLimiter) GetLimiter(ip string) *rate.Limiter {
	i.mu.RLock()
	limiter, exists := i.limits[ip]
	i.mu.RUnlock()

	if !exists {
		i.mu.Lock()
		limiter, exists = i.limits[ip]
		if !exists {
			limiter = rate.NewLimiter(i.r, i.b)
			i.limits[ip] = limiter
		}
		i.mu.Unlock()
	}

	return limiter
}

// Allow consumes one token for ip.
func (i *IPRateLimiter) Allow(ip string) bool {
	return i.GetLimiter(ip).Allow()
}

// Stop ends the cleanup goroutine. It is safe to call more than once.
func (i *IPRateLimiter) Stop() {
	i.stopOnce.Do(func() { close(i.stop) })
}

func (i *IPRateLimiter) cleanUpVisitors() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-i.stop:
			return
		case now := <-ticker.C:
			removed, remaining := i.evictIdle(now)
			logx.Debug("Rate limiter cleanup finished.",
				"limiter", i.name,
				"removed", removed,
				"remaining", remaining,
			)
		}
	}
}

// evictIdle drops every bucket that is full at now. An IP with a full bucket has
// no recent activity, so recreating it later is indistinguishable.
func (i *IPRateLimiter) evictIdle(now time.Time) (removed, remaining int) {
	i.mu.Lock()
	defer i.mu.Unlock()

	for ip, limiter := range i.limits {
		if limiter.TokensAt(now) >= float64(limiter.Burst()) {
			delete(i.limits, ip)
			removed++
		}
	}
	return removed, len(i.limits)
}

// ClientIP extracts the host part of r.RemoteAddr. chi's RealIP middleware has
// already replaced RemoteAddr from proxy headers that TrustedForwarding let through.
func ClientIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		ip = r.RemoteAddr
	}

	if ip == "" {
		ip = "unknown_ip"
	}
	return ip
}

// Middleware rejects requests over the limit with ErrRateLimitExceeded (HTTP 429) as a
// JSON envelope.
func (i *IPRateLimiter) Middleware(next http.Handler) http.Handler {
	return i.MiddlewareWith(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp.RespondError(w, r, errs.NewError(errs.ErrRateLimitExceeded))
	}))(next)
}

// MiddlewareWith is Middleware with the response for rejected requests supplied by
// rejected, for routes that answer with HTML.
func (i *IPRateLimiter) MiddlewareWith(rejected http.Handler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := ClientIP(r)

			if !i.Allow(ip) {
				logx.FromContext(r.Context()).Warn().
					Str("limiter", i.name).
					Msg("Request rejected: rate limit exceeded.")
				rejected.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
