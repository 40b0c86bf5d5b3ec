package http

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// clientIdleTTL is how long a client's bucket is kept after its last request.
const clientIdleTTL = 10 * time.Minute

// ClientLimiter provides per-client rate limiting using token buckets.
// It keeps a separate limiter for each client key so that one noisy client
// cannot exhaust the generative backend quota for everyone else.
type ClientLimiter struct {
	mu        sync.Mutex
	clients   map[string]*client
	rps       float64
	burst     int
	now       func() time.Time
	lastPrune time.Time
}

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewClientLimiter creates a new ClientLimiter allowing rps requests per
// second per client with the given burst.
func NewClientLimiter(rps float64, burst int) *ClientLimiter {
	if burst < 1 {
		burst = 1
	}
	return &ClientLimiter{
		clients: make(map[string]*client),
		rps:     rps,
		burst:   burst,
		now:     time.Now,
	}
}

// Allow reports whether a request from key may proceed now. It never blocks.
func (l *ClientLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastPrune) > clientIdleTTL {
		for k, c := range l.clients {
			if now.Sub(c.lastSeen) > clientIdleTTL {
				delete(l.clients, k)
			}
		}
		l.lastPrune = now
	}

	c, ok := l.clients[key]
	if !ok {
		c = &client{limiter: rate.NewLimiter(rate.Limit(l.rps), l.burst)}
		l.clients[key] = c
	}
	c.lastSeen = now
	return c.limiter.AllowN(now, 1)
}

// Middleware rejects requests over the limit with 429, keyed by client IP.
func (l *ClientLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.Allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Too many requests. Please wait a moment and try again.",
			})
			return
		}
		c.Next()
	}
}
