package middleware

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RateLimiter enforces a fixed-window per-user request limit backed by Redis.
type RateLimiter struct {
	redis  *redis.Client
	window time.Duration
	limit  int64
	prefix string
}

// NewRateLimiter creates a rate limiter instance.
func NewRateLimiter(client *redis.Client, window time.Duration, limit int64, prefix string) *RateLimiter {
	return &RateLimiter{
		redis:  client,
		window: window,
		limit:  limit,
		prefix: prefix,
	}
}

// NewRecommendRateLimiter limits recommendation requests per user. Scoring is
// CPU-bound across the whole dataset, so one user cannot be allowed to
// monopolize the process.
func NewRecommendRateLimiter(client *redis.Client) *RateLimiter {
	return NewRateLimiter(client, time.Minute, 30, "ratelimit:recommend")
}

// Middleware returns a Gin middleware enforcing the limit. Requests pass
// through unlimited when Redis is unreachable.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
			c.Abort()
			return
		}

		ctx := c.Request.Context()
		key := fmt.Sprintf("%s:%v", rl.prefix, userID)
		count, err := rl.redis.Incr(ctx, key).Result()
		if err != nil {
			log.Printf("rate limiter unavailable: %v", err)
			c.Next()
			return
		}
		if count == 1 {
			// Without the expiry the counter never resets and the user
			// stays limited forever.
			if err := rl.redis.Expire(ctx, key, rl.window).Err(); err != nil {
				log.Printf("rate limiter expire failed for %s: %v", key, err)
			}
		}

		if count > rl.limit {
			ttl, _ := rl.redis.TTL(ctx, key).Result()
			c.Header("Retry-After", fmt.Sprintf("%d", int(ttl.Seconds())))
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			c.Abort()
			return
		}

		c.Next()
	}
}
