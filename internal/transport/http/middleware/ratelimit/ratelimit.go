// Package ratelimit provides per-client request limiting backed by token buckets.
package ratelimit

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/dgraph-io/ristretto/v2"
	"golang.org/x/time/rate"

	"github.com/mandalnilabja/chatrelay/internal/types"
)

// idleTTL evicts buckets of clients that have been quiet for a while.
const idleTTL = 10 * time.Minute

// maxOverflow caps buckets held outside the cache after ristretto refused them.
const maxOverflow = 1024

// Limiter tracks request budgets per client key. Buckets live in a bounded
// ristretto cache so memory stays flat under many distinct clients. A bucket
// the cache refuses to admit is kept in a small overflow map instead, so the
// client is still limited. Eviction after idleTTL resets a client's budget.
type Limiter struct {
	perMinute int
	buckets   *ristretto.Cache[string, *rate.Limiter]
	mu        sync.Mutex // guards bucket creation and overflow
	overflow  map[string]*rate.Limiter
	now       func() time.Time
}

// New creates a limiter allowing perMinute requests per client, refilled evenly
// over the minute. perMinute <= 0 means unlimited.
func New(perMinute int) (*Limiter, error) {
	cache, err := ristretto.NewCache(&ristretto.Config[string, *rate.Limiter]{
		NumCounters: 1e5,
		MaxCost:     1e4,
		BufferItems: 64,
		// One bucket costs 1, so MaxCost is the bucket count
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, err
	}
	return &Limiter{
		perMinute: perMinute,
		buckets:   cache,
		overflow:  make(map[string]*rate.Limiter),
		now:       time.Now,
	}, nil
}

// Close releases the underlying cache.
func (l *Limiter) Close() {
	l.buckets.Close()
}

// Allow reports whether a request from key is within budget, consuming one token.
func (l *Limiter) Allow(key string) bool {
	if l.perMinute <= 0 {
		return true
	}
	return l.bucketFor(key).AllowN(l.now(), 1)
}

func (l *Limiter) bucketFor(key string) *rate.Limiter {
	if b, ok := l.buckets.Get(key); ok {
		return b
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if b, ok := l.buckets.Get(key); ok {
		return b
	}

	b, ok := l.overflow[key]
	if !ok {
		b = rate.NewLimiter(rate.Every(time.Minute/time.Duration(l.perMinute)), l.perMinute)
	}

	// Sets can be dropped under contention or at admission; only a bucket the
	// cache actually holds may leave the overflow map.
	if l.buckets.SetWithTTL(key, b, 1, idleTTL) {
		l.buckets.Wait()
		if _, ok := l.buckets.Get(key); ok {
			delete(l.overflow, key)
			return b
		}
	}

	if !ok && len(l.overflow) >= maxOverflow {
		clear(l.overflow)
	}
	l.overflow[key] = b
	return b
}

// Middleware returns an HTTP middleware that enforces the limit per client IP.
// Preflight requests are never limited.
func Middleware(limiter *Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions || limiter.Allow(clientKey(r)) {
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("Retry-After", strconv.Itoa(60/max(limiter.perMinute, 1)+1))
			types.WriteJSON(w, http.StatusTooManyRequests, types.ErrorResponse{Error: "Rate limit exceeded"})
		})
	}
}

// clientKey identifies the caller by remote IP.
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
