package httpserver

import (
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

type limiterEntry struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// clientLimiter hands out one token bucket per player.
type clientLimiter struct {
	rps   rate.Limit
	burst int

	mu       sync.Mutex // guards limiters
	limiters map[string]*limiterEntry
}

func newClientLimiter(rps float64, burst int) *clientLimiter {
	if rps <= 0 {
		rps = 1
	}
	return &clientLimiter{
		rps:      rate.Limit(rps),
		burst:    max(burst, 1),
		limiters: make(map[string]*limiterEntry),
	}
}

func (cl *clientLimiter) allow(key string) bool {
	cl.mu.Lock()
	e, ok := cl.limiters[key]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(cl.rps, cl.burst)}
		cl.limiters[key] = e
	}
	e.lastAccess = time.Now()
	cl.mu.Unlock()
	return e.limiter.Allow()
}

// cleanup forgets limiters idle for longer than ttl.
func (cl *clientLimiter) cleanup(ttl time.Duration) int {
	cutoff := time.Now().Add(-ttl)
	cl.mu.Lock()
	defer cl.mu.Unlock()
	removed := 0
	for key, e := range cl.limiters {
		if e.lastAccess.Before(cutoff) {
			delete(cl.limiters, key)
			removed++
		}
	}
	if removed > 0 {
		log.Debug().Int("count", removed).Msg("cleaned up stale rate limiters")
	}
	return removed
}

// middleware rejects requests over the client's budget with 429. Behind
// withPlayer the budget is the player's; cookieless guests share their
// address's budget.
func (cl *clientLimiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !cl.allow(limitKey(r)) {
			writeError(w, http.StatusTooManyRequests, "rate_limited")
			return
		}
		next.ServeHTTP(w, r)
	})
}
