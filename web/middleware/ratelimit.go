package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Sreehari-M-dev/LOGI-tests/logger"
	"github.com/Sreehari-M-dev/LOGI-tests/web/entity"

	"github.com/gin-gonic/gin"
)

// RateStore counts hits per key in fixed windows.
type RateStore interface {
	Incr(ctx context.Context, key string, window time.Duration) (count int64, resetAt time.Time, err error)
}

// RateLimitConfig configures rate limiting
type RateLimitConfig struct {
	Max       int
	Window    time.Duration
	Store     RateStore
	KeyFunc   func(c *gin.Context) string
	SkipPaths []string // Paths to skip rate limiting
}

// DefaultRateLimitConfig returns the per-IP limit of 100 requests a minute.
func DefaultRateLimitConfig(store RateStore) RateLimitConfig {
	return RateLimitConfig{
		Max:    100,
		Window: time.Minute,
		Store:  store,
		KeyFunc: func(c *gin.Context) string {
			return c.ClientIP()
		},
		SkipPaths: []string{"/health"},
	}
}

func (config RateLimitConfig) shouldSkip(path string) bool {
	for _, skipPath := range config.SkipPaths {
		if strings.HasPrefix(path, skipPath) {
			return true
		}
	}
	return false
}

// RateLimitMiddleware answers 429 once a key exceeds Max requests in the
// current window. Store errors let the request through.
func RateLimitMiddleware(config RateLimitConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if config.shouldSkip(c.Request.URL.Path) {
			c.Next()
			return
		}

		key := config.KeyFunc(c)
		count, resetAt, err := config.Store.Incr(c.Request.Context(), key, config.Window)
		if err != nil {
			logger.Warning("Rate limit increment failed:", err)
			c.Next()
			return
		}

		remaining := int64(config.Max) - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(config.Max))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(resetAt.Unix(), 10))

		if count > int64(config.Max) {
			logger.Warningf("Rate limit exceeded for %s (count: %d)", key, count)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, entity.Msg{
				Error: "Too many requests. Please try again later.",
			})
			return
		}
		c.Next()
	}
}
