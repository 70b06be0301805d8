package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	redis "github.com/redis/go-redis/v9"
)

var redisClient *redis.Client

// SetRedisClient shares an existing client with the rate limiters. A nil
// client switches them to their in-process fallback.
func SetRedisClient(client *redis.Client) {
	redisClient = client
}

// redisWindowKey names the counter of id in a fixed window of the given size.
func redisWindowKey(prefix, id string, size time.Duration) string {
	return prefix + ":" + strconv.FormatInt(int64(size.Seconds()), 10) + ":" + id
}

// redisIncr counts one hit on key; the first hit starts the window.
func redisIncr(ctx context.Context, key string, size time.Duration) (int64, error) {
	val, err := redisClient.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if val == 1 {
		redisClient.Expire(ctx, key, size)
	}
	return val, nil
}

// RedisRateLimit implements a fixed-window limiter per client IP using
// Redis INCR/EXPIRE, so the limit is shared by every instance. Without
// Redis it degrades to the in-process SimpleRateLimit. Redis errors fail
// open.
func RedisRateLimit(maxRequests int, window time.Duration) gin.HandlerFunc {
	fallback := SimpleRateLimit(maxRequests, window)

	return func(c *gin.Context) {
		if redisClient == nil {
			fallback(c)
			return
		}

		val, err := redisIncr(c.Request.Context(), redisWindowKey("rl", c.ClientIP(), window), window)
		if err != nil {
			c.Header("X-RateLimit-Error", "redis-error")
			c.Next()
			return
		}

		if val > int64(maxRequests) {
			RLBlocked.WithLabelValues(c.FullPath()).Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}

		RLRequests.WithLabelValues(c.FullPath()).Inc()
		c.Next()
	}
}
