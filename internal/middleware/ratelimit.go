package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	apperrors "github.com/NDQnhat/realestatepro-api/pkg/errors"
	"github.com/NDQnhat/realestatepro-api/pkg/logger"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const bucketIdleTTL = 3 * time.Minute

// IPRateLimiter keeps one token bucket per caller. Callers are keyed by
// user id once authenticated, by client IP otherwise.
type IPRateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	limit   rate.Limit
	burst   int
}

type bucket struct {
	*rate.Limiter
	lastSeen time.Time
}

// NewIPRateLimiter allows limit events per second per caller with the given
// burst. Buckets idle for bucketIdleTTL are dropped by a background sweep.
func NewIPRateLimiter(limit rate.Limit, burst int) *IPRateLimiter {
	rl := &IPRateLimiter{
		buckets: make(map[string]*bucket),
		limit:   limit,
		burst:   burst,
	}
	go func() {
		for now := range time.Tick(time.Minute) {
			rl.evictIdle(now)
		}
	}()
	return rl
}

func (rl *IPRateLimiter) evictIdle(now time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for key, b := range rl.buckets {
		if now.Sub(b.lastSeen) > bucketIdleTTL {
			delete(rl.buckets, key)
		}
	}
}

func (rl *IPRateLimiter) bucketFor(key string) *bucket {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	b, ok := rl.buckets[key]
	if !ok {
		b = &bucket{Limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.buckets[key] = b
	}
	b.lastSeen = time.Now()
	return b
}

// take consumes one token for key. When none is available it returns how
// long the caller should wait, without holding the reservation.
func (rl *IPRateLimiter) take(key string) (time.Duration, bool) {
	res := rl.bucketFor(key).Reserve()
	if !res.OK() {
		return time.Minute, false
	}
	if wait := res.Delay(); wait > 0 {
		res.Cancel()
		return wait, false
	}
	return 0, true
}

func limitKey(c *gin.Context) string {
	if id := c.GetString(ContextUserID); id != "" {
		return "user:" + id
	}
	return "ip:" + c.ClientIP()
}

var (
	// auth endpoints: 20 per minute
	AuthLimiter = NewIPRateLimiter(rate.Limit(20.0/60.0), 10)
	// message sending: 30 per minute
	MessageLimiter = NewIPRateLimiter(rate.Limit(30.0/60.0), 10)
	// everything else: 600 per minute
	GeneralLimiter = NewIPRateLimiter(rate.Limit(10.0), 50)
)

func RateLimitMiddleware(limiter *IPRateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := limitKey(c)
		wait, ok := limiter.take(key)
		if !ok {
			logger.Warn().Str("key", key).Str("path", c.Request.URL.Path).Dur("retry_after", wait).
				Msg("Rate limit exceeded")
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apperrors.ErrRateLimit)
			return
		}
		c.Next()
	}
}

func AuthRateLimit() gin.HandlerFunc    { return RateLimitMiddleware(AuthLimiter) }
func MessageRateLimit() gin.HandlerFunc { return RateLimitMiddleware(MessageLimiter) }
func GeneralRateLimit() gin.HandlerFunc { return RateLimitMiddleware(GeneralLimiter) }
