package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// GameRateLimit limits game actions per account rather than per IP. It
// must run after JWT. Counters live in Redis when configured and in
// process otherwise.
func GameRateLimit(maxActions int, window time.Duration) gin.HandlerFunc {
	local := newLocalCounter(window)

	return func(c *gin.Context) {
		account, ok := Account(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var val int64
		if redisClient == nil {
			val = int64(local.incr(account, time.Now()))
		} else {
			n, err := redisIncr(c.Request.Context(), redisWindowKey("game_rl", account, window), window)
			if err != nil {
				c.Header("X-GameRateLimit-Error", "redis-error")
				c.Next()
				return
			}
			val = n
		}

		c.Header("X-GameRateLimit-Limit", strconv.Itoa(maxActions))
		c.Header("X-GameRateLimit-Remaining", strconv.FormatInt(max(0, int64(maxActions)-val), 10))

		if val > int64(maxActions) {
			RLBlocked.WithLabelValues("game:" + c.FullPath()).Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "game rate limit exceeded",
				"retry_after": int(window.Seconds()),
			})
			return
		}

		RLRequests.WithLabelValues("game:" + c.FullPath()).Inc()
		c.Next()
	}
}
