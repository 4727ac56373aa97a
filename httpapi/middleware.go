package httpapi

import (
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const (
	traceIDKey = "trace_id"
	tokenKey   = "session_token"
)

// TraceID tags every request with a fresh id, echoed in X-Trace-ID and error bodies.
func TraceID() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := uuid.New().String()
		c.Set(traceIDKey, traceID)
		c.Writer.Header().Set("X-Trace-ID", traceID)
		c.Next()
	}
}

// BearerToken stores the Authorization bearer token, if any, for handlers.
// Validation happens in the gateway so that every operation reports
// not_authenticated the same way.
func BearerToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if strings.HasPrefix(header, "Bearer ") {
			c.Set(tokenKey, strings.TrimSpace(strings.TrimPrefix(header, "Bearer ")))
		}
		c.Next()
	}
}

func sessionToken(c *gin.Context) string {
	return c.GetString(tokenKey)
}

// MaxBodyBytes rejects declared bodies above limit and caps the rest while
// they are read.
func MaxBodyBytes(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > limit {
			respondTooLarge(c)
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		c.Next()
	}
}

func respondTooLarge(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, errorBody{
		ErrorCode: "request_too_large",
		TraceID:   c.GetString(traceIDKey),
	})
}

// ipLimiter hands out one token bucket per client IP.
type ipLimiter struct {
	mu       sync.Mutex
	limit    rate.Limit
	burst    int
	limiters map[string]*rate.Limiter
	lastSeen map[string]time.Time
	now      func() time.Time
}

func newIPLimiter(perMinute int) *ipLimiter {
	return &ipLimiter{
		limit:    rate.Every(time.Minute / time.Duration(perMinute)),
		burst:    perMinute,
		limiters: make(map[string]*rate.Limiter),
		lastSeen: make(map[string]time.Time),
		now:      time.Now,
	}
}

func (l *ipLimiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	limiter, ok := l.limiters[ip]
	if !ok {
		limiter = rate.NewLimiter(l.limit, l.burst)
		l.limiters[ip] = limiter
	}
	l.lastSeen[ip] = now
	return limiter.AllowN(now, 1)
}

// sweep drops limiters idle for longer than idle.
func (l *ipLimiter) sweep(idle time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for ip, seen := range l.lastSeen {
		if now.Sub(seen) > idle {
			delete(l.limiters, ip)
			delete(l.lastSeen, ip)
		}
	}
}

// RateLimit rejects requests beyond the per-IP budget with 429.
func (l *ipLimiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.allow(c.ClientIP()) {
			log.Printf("httpapi: rate limit exceeded for %s %s from %s", c.Request.Method, c.FullPath(), c.ClientIP())
			c.AbortWithStatusJSON(http.StatusTooManyRequests, errorBody{
				ErrorCode: "rate_limited",
				TraceID:   c.GetString(traceIDKey),
			})
			return
		}
		c.Next()
	}
}
