package middleware

import (
	"sync"
	"time"

	"github.com/ahamo-portal/portal/internal/config"
	ierr "github.com/ahamo-portal/portal/internal/errors"
	"github.com/ahamo-portal/portal/internal/types"
	"github.com/gin-gonic/gin"
	goCache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// idleLimiterExpiration drops limiters of callers that went quiet
const idleLimiterExpiration = 10 * time.Minute

// RateLimiter throttles simulation requests per subscriber, or per client IP
// when no subscriber is known.
type RateLimiter struct {
	enabled  bool
	limit    rate.Limit
	burst    int
	mu       sync.Mutex
	limiters *goCache.Cache
}

func NewRateLimiter(cfg *config.Configuration) *RateLimiter {
	return &RateLimiter{
		enabled:  cfg.RateLimit.Enabled,
		limit:    rate.Limit(cfg.RateLimit.RequestsPerSecond),
		burst:    cfg.RateLimit.Burst,
		limiters: goCache.New(idleLimiterExpiration, 2*idleLimiterExpiration),
	}
}

func (l *RateLimiter) limiterFor(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if v, found := l.limiters.Get(key); found {
		limiter := v.(*rate.Limiter)
		l.limiters.SetDefault(key, limiter)
		return limiter
	}

	limiter := rate.NewLimiter(l.limit, l.burst)
	l.limiters.SetDefault(key, limiter)
	return limiter
}

// Middleware rejects requests over the configured rate with ErrTooManyRequests
func (l *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.enabled {
			c.Next()
			return
		}

		key := types.GetSubscriberID(c.Request.Context())
		if key == "" {
			key = "ip:" + c.ClientIP()
		}

		if !l.limiterFor(key).Allow() {
			c.Error(ierr.NewError("rate limit exceeded").
				WithHint("Too many simulation requests, please retry shortly").
				Mark(ierr.ErrTooManyRequests))
			c.Abort()
			return
		}

		c.Next()
	}
}
