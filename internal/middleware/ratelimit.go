package middleware

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"github.com/BruksfildServices01/lefade-api/internal/logging"
)

// The bucket holds fractional tokens refilled continuously at rate per
// second. Returns {allowed, remaining, retry_after_ms}.
var tokenBucket = redis.NewScript(`
local key = KEYS[1]
local now_ms = tonumber(ARGV[1])
local capacity = tonumber(ARGV[2])
local rate = tonumber(ARGV[3])
local ttl = tonumber(ARGV[4])

local state = redis.call('HMGET', key, 'tokens', 'ts')
local tokens = tonumber(state[1])
local ts = tonumber(state[2])
if tokens == nil or ts == nil then
	tokens = capacity
	ts = now_ms
end

local elapsed = math.max(0, now_ms - ts)
tokens = math.min(capacity, tokens + (elapsed * rate / 1000))

local allowed = 0
local retry_ms = 0
if tokens >= 1 then
	allowed = 1
	tokens = tokens - 1
else
	retry_ms = math.ceil((1 - tokens) * 1000 / rate)
end

redis.call('HSET', key, 'tokens', tostring(tokens), 'ts', now_ms)
redis.call('EXPIRE', key, ttl)
return { allowed, math.floor(tokens), retry_ms }
`)

type RateLimitConfig struct {
	Enabled bool
	RPS     float64
	Burst   int
	Prefix  string
}

// RateLimit applies a per-user (or per-IP for anonymous calls) token bucket
// per route. It passes everything through when Redis is unavailable or the
// script errors.
func RateLimit(cfg RateLimitConfig, rdb *redis.Client) gin.HandlerFunc {
	if !cfg.Enabled || rdb == nil || cfg.RPS <= 0 || cfg.Burst <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	if cfg.Prefix == "" {
		cfg.Prefix = "lefade:rl"
	}

	ttl := int64(math.Ceil(float64(cfg.Burst)/cfg.RPS)) + 1

	return func(c *gin.Context) {
		key := rateKey(cfg.Prefix, c)
		ctx := c.Request.Context()

		res, err := tokenBucket.Run(ctx, rdb, []string{key},
			time.Now().UnixMilli(), cfg.Burst, cfg.RPS, ttl,
		).Result()
		if err != nil {
			logging.FromContext(ctx).Warn().Err(err).Str("key", key).Msg("ratelimit: redis error")
			c.Next()
			return
		}

		vals, ok := res.([]interface{})
		if !ok || len(vals) != 3 {
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(cfg.Burst))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(asInt64(vals[1]), 10))

		if asInt64(vals[0]) != 1 {
			secs := int(math.Ceil(float64(asInt64(vals[2])) / 1000))
			if secs < 1 {
				secs = 1
			}
			c.Header("Retry-After", strconv.Itoa(secs))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Too many requests",
				"code":  "rate_limited",
			})
			return
		}

		c.Next()
	}
}

func rateKey(prefix string, c *gin.Context) string {
	subject := "ip:" + c.ClientIP()
	if id, ok := c.Get(ContextUserID); ok {
		subject = fmt.Sprintf("user:%v", id)
	}
	route := c.FullPath()
	if route == "" {
		route = c.Request.URL.Path
	}
	return prefix + ":" + subject + ":" + c.Request.Method + " " + route
}

func asInt64(v interface{}) int64 {
	switch t := v.(type) {
	case int64:
		return t
	case int:
		return int64(t)
	case float64:
		return int64(t)
	case string:
		if n, err := strconv.ParseInt(t, 10, 64); err == nil {
			return n
		}
	}
	return 0
}
