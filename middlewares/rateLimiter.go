package middlewares

import (
	"context"
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Counter counts hits on a key inside a fixed window.
type Counter interface {
	// Hit increments key and returns the new count and the time left in the
	// current window.
	Hit(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
}

// RedisCounter implements Counter with INCR and a TTL set on the first hit.
type RedisCounter struct {
	Client *redis.Client
}

func (r RedisCounter) Hit(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	count, err := r.Client.Incr(ctx, key).Result()
	if err != nil {
		return 0, 0, err
	}

	// Set TTL only for the first increment
	if count == 1 {
		if err := r.Client.Expire(ctx, key, window).Err(); err != nil {
			return count, 0, err
		}
		return count, window, nil
	}

	ttl, err := r.Client.TTL(ctx, key).Result()
	if err != nil {
		return count, 0, err
	}
	return count, ttl, nil
}

// RateLimiter allows limit submissions per caller per window. Callers are
// keyed by user id when authenticated and by client IP otherwise.
func RateLimiter(counter Counter, prefix string, limit int, window time.Duration, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := UserID(c)
		if caller == "" {
			caller = "ip:" + c.ClientIP()
		}
		key := prefix + ":" + caller

		count, retryAfter, err := counter.Hit(c.Request.Context(), key, window)
		if err != nil {
			logger.Error("rate limiter counter failed", zap.String("key", key), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "rate limiter unavailable"})
			c.Abort()
			return
		}

		if count > int64(limit) {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       "rate limit exceeded",
				"retry_after": math.Ceil(retryAfter.Seconds()),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
