package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/nfsindex/internal/domain/dto"
	"github.com/guttosm/nfsindex/internal/metrics"
	"golang.org/x/time/rate"
)

// defaultIdleTTL is how long an unused client bucket is kept.
const defaultIdleTTL = 3 * time.Minute

// bucket is one caller's token bucket and the last time it was used.
type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// clientLimiter holds the buckets of one RateLimiter instance, keyed by client IP.
type clientLimiter struct {
	mu      sync.Mutex
	rps     rate.Limit
	burst   int
	idleTTL time.Duration
	buckets map[string]*bucket
}

func newClientLimiter(rps float64, burst int) *clientLimiter {
	return &clientLimiter{
		rps:     rate.Limit(rps),
		burst:   burst,
		idleTTL: defaultIdleTTL,
		buckets: make(map[string]*bucket),
	}
}

// allow takes one token from ip's bucket, dropping idle buckets first.
func (l *clientLimiter) allow(ip string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	for k, b := range l.buckets {
		if now.Sub(b.lastSeen) > l.idleTTL {
			delete(l.buckets, k)
		}
	}
	b, ok := l.buckets[ip]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.buckets[ip] = b
	}
	b.lastSeen = now
	return b.limiter.AllowN(now, 1)
}

// RateLimiter rejects callers that exceed rps requests per second (with the
// given burst) with 429 and a Retry-After header. Each call returns a
// limiter with its own buckets.
//
//	router.Use(middleware.RateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst))
func RateLimiter(rps float64, burst int) gin.HandlerFunc {
	return newClientLimiter(rps, burst).handle
}

func (l *clientLimiter) handle(c *gin.Context) {
	if !l.allow(c.ClientIP(), time.Now()) {
		metrics.RateLimitedTotal.Inc()
		c.Header("Retry-After", "1")
		c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.NewErrorResponse("rate limit exceeded", nil))
		return
	}
	c.Next()
}
