package middleware

import (
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RateLimiter — счётчик запросов в Redis с окном фиксированной длины.
// Если Redis недоступен, запросы пропускаются: лимитер прикрывает
// relay от спама, а не служит границей безопасности.
type RateLimiter struct {
	rdb *redis.Client
}

func NewRateLimiter(rdb *redis.Client) *RateLimiter {
	return &RateLimiter{rdb: rdb}
}

// Limit допускает не более limit запросов за window на действие.
// Считаем по userId, на публичных маршрутах — по IP.
func (rl *RateLimiter) Limit(action string, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		subject := c.GetString("userId")
		if subject == "" {
			subject = c.ClientIP()
		}
		key := fmt.Sprintf("ratelimit:%s:%s", action, subject)

		count, err := rl.rdb.Incr(c, key).Result()
		if err != nil {
			c.Next()
			return
		}
		if count == 1 {
			rl.rdb.Expire(c, key, window)
		}

		if count > int64(limit) {
			ttl, _ := rl.rdb.TTL(c, key).Result()
			retryAfter := int(math.Ceil(ttl.Seconds()))
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "Too many requests",
				"retry_after": fmt.Sprintf("%d seconds", retryAfter),
			})
			return
		}
		c.Next()
	}
}
