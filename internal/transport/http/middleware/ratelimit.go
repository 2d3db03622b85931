package middleware

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"bookstore/internal/core/cache"
)

// RateLimitPerIP 每 IP 令牌桶限速（进程内，redis 不可用时的兜底）
func RateLimitPerIP(rps rate.Limit, burst int) gin.HandlerFunc {
	var mu sync.Mutex
	buckets := make(map[string]*rate.Limiter)
	return func(c *gin.Context) {
		ip := c.ClientIP()
		mu.Lock()
		lim, ok := buckets[ip]
		if !ok {
			lim = rate.NewLimiter(rps, burst)
			buckets[ip] = lim
		}
		mu.Unlock()
		if lim.Allow() {
			c.Next()
			return
		}
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"message": "too many requests"})
	}
}

// RateLimitRedis enforces a fixed window of max requests per IP per window,
// shared across instances. scope keeps independent windows per route group.
func RateLimitRedis(ca *cache.Cache, scope string, max int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := fmt.Sprintf("ratelimit:%s:%s", scope, c.ClientIP())
		n, err := ca.Hit(c.Request.Context(), key, window)
		if err != nil {
			// redis 故障时放行，不把限流器变成单点
			c.Next()
			return
		}
		if n > int64(max) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"message": "too many requests"})
			return
		}
		c.Next()
	}
}
