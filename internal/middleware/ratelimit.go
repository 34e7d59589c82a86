// Package middleware provides request-level HTTP middleware.
package middleware

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// maxLimiterEntries caps the per-client limiter cache. When exceeded the
// cache is cleared wholesale, which briefly resets budgets rather than
// letting the map grow without bound.
const maxLimiterEntries = 10000

// limiterCache hands out one token bucket per client key, with double-check
// locking on the slow path.
type limiterCache struct {
	mu       sync.RWMutex
	limiters map[string]*rate.Limiter
	rate     rate.Limit
	burst    int
}

func newLimiterCache(r rate.Limit, burst int) *limiterCache {
	return &limiterCache{
		limiters: make(map[string]*rate.Limiter),
		rate:     r,
		burst:    burst,
	}
}

func (lc *limiterCache) get(key string) *rate.Limiter {
	lc.mu.RLock()
	limiter, ok := lc.limiters[key]
	lc.mu.RUnlock()
	if ok {
		return limiter
	}

	lc.mu.Lock()
	defer lc.mu.Unlock()

	if limiter, ok = lc.limiters[key]; ok {
		return limiter
	}
	if len(lc.limiters) > maxLimiterEntries {
		lc.limiters = make(map[string]*rate.Limiter)
	}
	limiter = rate.NewLimiter(lc.rate, lc.burst)
	lc.limiters[key] = limiter
	return limiter
}

// RateLimit enforces a per-client-IP request budget of perMinute requests
// per minute, refilled continuously. It runs ahead of authentication.
func RateLimit(perMinute int) gin.HandlerFunc {
	cache := newLimiterCache(rate.Limit(float64(perMinute)/60.0), perMinute)

	return func(c *gin.Context) {
		if !cache.get(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"message": "Too Many Requests",
			})
			return
		}
		c.Next()
	}
}
