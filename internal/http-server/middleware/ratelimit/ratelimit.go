// Package ratelimit throttles requests per authenticated user.
package ratelimit

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"appointments-service/internal/http-server/middleware/auth"
	"appointments-service/pkg/response"
)

const (
	staleAfter    = 3 * time.Minute
	sweepInterval = time.Minute
)

type client struct {
	lim  *rate.Limiter
	seen time.Time
}

type Limiter struct {
	mu        sync.Mutex
	clients   map[string]*client
	r         rate.Limit
	burst     int
	lastSweep time.Time
	now       func() time.Time
}

// New allows perMinute requests per caller with bursts of burst.
func New(perMinute float64, burst int) *Limiter {
	if burst < 1 {
		burst = 1
	}

	return &Limiter{
		clients: make(map[string]*client),
		r:       rate.Limit(perMinute / 60),
		burst:   burst,
		now:     time.Now,
	}
}

func (l *Limiter) get(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) > sweepInterval {
		for k, c := range l.clients {
			if now.Sub(c.seen) > staleAfter {
				delete(l.clients, k)
			}
		}
		l.lastSweep = now
	}

	if c, ok := l.clients[key]; ok {
		c.seen = now
		return c.lim
	}

	lim := rate.NewLimiter(l.r, l.burst)
	l.clients[key] = &client{lim: lim, seen: now}
	return lim
}

// Allow reports whether key may make one more request now.
func (l *Limiter) Allow(key string) bool {
	return l.get(key).AllowN(l.now(), 1)
}

// Middleware keys callers by their authenticated e-mail, falling back to the
// remote address.
func (l *Limiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.Allow(callerKey(r)) {
			w.Header().Set("Retry-After", strconv.Itoa(l.retryAfterSeconds()))
			response.Fail(w, r, http.StatusTooManyRequests, response.TOO_MANY_REQUESTS, "too many requests")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (l *Limiter) retryAfterSeconds() int {
	if l.r <= 0 {
		return 60
	}

	secs := int(math.Round(1 / float64(l.r)))
	if secs < 1 {
		secs = 1
	}
	return secs
}

func callerKey(r *http.Request) string {
	if id, ok := auth.FromContext(r.Context()); ok && id.Email != "" {
		return "user:" + id.Email
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "ip:" + host
}
