package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/itbasis/go-clock"
	"github.com/palmithor/scorebrawl/internal/httputil"
	"golang.org/x/time/rate"
)

const (
	// minimum number of tracked keys before idle ones are pruned
	cleanupThreshold = 500
	maxIdleAge       = 10 * time.Minute
)

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter hands out one token bucket per key, pruning idle keys inline.
type RateLimiter struct {
	mu      sync.Mutex
	entries map[string]*limiterEntry
	r       rate.Limit
	b       int
	clock   clock.Clock
}

func NewRateLimiter(r rate.Limit, b int, clock clock.Clock) *RateLimiter {
	return &RateLimiter{
		entries: make(map[string]*limiterEntry),
		r:       r,
		b:       b,
		clock:   clock,
	}
}

func (l *RateLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock.Now()
	if len(l.entries) > cleanupThreshold {
		cutoff := now.Add(-maxIdleAge)
		for k, e := range l.entries {
			if e.lastSeen.Before(cutoff) {
				delete(l.entries, k)
			}
		}
	}

	e, ok := l.entries[key]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(l.r, l.b)}
		l.entries[key] = e
	}
	e.lastSeen = now
	return e.limiter.AllowN(now, 1)
}

// RateLimit limits requests per authenticated user, falling back to the
// client address for anonymous requests.
func RateLimit(limiter *RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := "user:"
			if userID, ok := GetUserIDFromContext(r.Context()); ok {
				key += userID.String()
			} else {
				ip, _, err := net.SplitHostPort(r.RemoteAddr)
				if err != nil {
					ip = r.RemoteAddr
				}
				key = "ip:" + ip
			}

			if !limiter.Allow(key) {
				httputil.TooManyRequests(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
