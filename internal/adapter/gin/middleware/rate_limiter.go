package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"transactions-compare/internal/metrics"
)

// RateLimiterConfig holds configuration for the rate limiter.
type RateLimiterConfig struct {
	Enabled           bool
	RequestsPerSecond float64
	BurstCapacity     int
}

// Token bucket kept in a Redis hash {last_refill, tokens}. Returns 1 when
// the request may proceed, 0 when the bucket is empty.
var tokenBucket = redis.NewScript(`
local key = KEYS[1]
local rate = tonumber(ARGV[1])
local capacity = tonumber(ARGV[2])
local now = tonumber(ARGV[3])

local bucket = redis.call('HMGET', key, 'last_refill', 'tokens')
local last_refill = tonumber(bucket[1]) or now
local tokens = tonumber(bucket[2]) or capacity

local elapsed = math.max(0, now - last_refill)
tokens = math.min(capacity, tokens + elapsed * rate)

local allowed = 0
if tokens >= 1 then
	tokens = tokens - 1
	allowed = 1
end

redis.call('HSET', key, 'last_refill', now, 'tokens', tokens)
redis.call('EXPIRE', key, 60)
return allowed
`)

// RateLimiter throttles requests per route and client IP using Redis.
type RateLimiter struct {
	client *redis.Client
	config RateLimiterConfig
	log    *zap.Logger
	now    func() time.Time
}

// NewRateLimiter creates a new rate limiter. A nil client disables it.
func NewRateLimiter(client *redis.Client, config RateLimiterConfig, log *zap.Logger) *RateLimiter {
	return &RateLimiter{
		client: client,
		config: config,
		log:    log,
		now:    time.Now,
	}
}

// Middleware returns the gin handler. Redis failures let the request through.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl == nil || rl.client == nil || !rl.config.Enabled {
			c.Next()
			return
		}

		clientIP := c.ClientIP()
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		key := fmt.Sprintf("ratelimit:tb:%s:%s", route, clientIP)
		now := float64(rl.now().UnixMicro()) / 1e6

		allowed, err := tokenBucket.Run(c.Request.Context(), rl.client, []string{key},
			rl.config.RequestsPerSecond,
			rl.config.BurstCapacity,
			now,
		).Int64()
		if err != nil {
			rl.log.Warn("rate limiter redis error, allowing request",
				zap.String("client_ip", clientIP),
				zap.String("route", route),
				zap.Error(err),
			)
			c.Next()
			return
		}

		if allowed == 0 {
			metrics.RateLimitedTotal.Inc()
			rl.log.Warn("rate limit exceeded",
				zap.String("client_ip", clientIP),
				zap.String("route", route),
			)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "rate_limit_exceeded",
				"message": fmt.Sprintf("Rate limit exceeded: %.2f requests/second (burst capacity: %d)",
					rl.config.RequestsPerSecond, rl.config.BurstCapacity),
			})
			return
		}

		c.Next()
	}
}
