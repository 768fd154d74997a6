package spectator

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// connLimiter is a token bucket per remote address. Each bucket holds up
// to perWindow tokens and refills in proportion to elapsed time.
type connLimiter struct {
	mu        sync.Mutex
	perWindow int
	window    time.Duration
	buckets   map[string]*bucket
	lastSweep time.Time
	now       func() time.Time
}

type bucket struct {
	tokens   int
	refilled time.Time
}

func newConnLimiter(perWindow int, window time.Duration) *connLimiter {
	return &connLimiter{
		perWindow: perWindow,
		window:    window,
		buckets:   make(map[string]*bucket),
		now:       time.Now,
	}
}

// Allow takes one token from addr's bucket.
func (l *connLimiter) Allow(addr string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if l.lastSweep.IsZero() {
		l.lastSweep = now
	} else if now.Sub(l.lastSweep) >= l.window {
		l.sweep(now)
	}

	b, ok := l.buckets[addr]
	if !ok {
		b = &bucket{tokens: l.perWindow, refilled: now}
		l.buckets[addr] = b
	}

	if elapsed := now.Sub(b.refilled); elapsed > 0 && b.tokens < l.perWindow {
		add := int(float64(l.perWindow) * float64(elapsed) / float64(l.window))
		if add > 0 {
			b.tokens = min(b.tokens+add, l.perWindow)
			b.refilled = now
		}
	}

	if b.tokens == 0 {
		return false
	}
	b.tokens--
	return true
}

// sweep forgets addresses idle for two windows.
func (l *connLimiter) sweep(now time.Time) {
	cutoff := now.Add(-2 * l.window)
	for addr, b := range l.buckets {
		if b.refilled.Before(cutoff) {
			delete(l.buckets, addr)
		}
	}
	l.lastSweep = now
}

// Len returns the number of tracked addresses
func (l *connLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

// limitConnects rejects websocket upgrades from addresses over their budget.
func (s *Server) limitConnects() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.limiter != nil && !s.limiter.Allow(c.ClientIP()) {
			s.logger.Warn(c.Request.Context(), "spectator connect rejected", "remote", c.ClientIP())
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many connection attempts"})
			return
		}
		c.Next()
	}
}
