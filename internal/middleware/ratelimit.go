package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"leadpanel/internal/pkg/response"
)

const limiterIdleTTL = 10 * time.Minute

type ipLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimit throttles an endpoint per client IP. Used on login to slow
// down credential stuffing.
func RateLimit(perSecond float64, burst int) gin.HandlerFunc {
	var mu sync.Mutex
	limiters := make(map[string]*ipLimiter)

	cleanup := func(now time.Time) {
		for ip, l := range limiters {
			if now.Sub(l.lastSeen) > limiterIdleTTL {
				delete(limiters, ip)
			}
		}
	}

	return func(c *gin.Context) {
		ip := c.ClientIP()
		now := time.Now()

		mu.Lock()
		l, ok := limiters[ip]
		if !ok {
			l = &ipLimiter{limiter: rate.NewLimiter(rate.Limit(perSecond), burst)}
			limiters[ip] = l
			cleanup(now)
		}
		l.lastSeen = now
		allowed := l.limiter.Allow()
		mu.Unlock()

		if !allowed {
			response.Error(c, http.StatusTooManyRequests, "RATE_LIMITED", "Too many attempts, slow down")
			c.Abort()
			return
		}

		c.Next()
	}
}
