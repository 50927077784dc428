package middleware

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"jobsearch-backend/internal/shared/telemetry"
)

const (
	defaultRateLimitGroup = "DEFAULT"
	bucketSweepInterval   = time.Minute
)

type RateLimitRule struct {
	Rate  float64
	Burst int
}

// Limiter decides whether one more request fits the bucket for key.
type Limiter interface {
	Allow(ctx context.Context, key string, rule RateLimitRule) (bool, time.Duration)
}

type RateLimitConfig struct {
	Rules        map[string]RateLimitRule
	DefaultGroup string
	GroupFor     func(*gin.Context) string
	Limiter      Limiter
}

func RateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	if cfg.Limiter == nil {
		cfg.Limiter = NewRateLimiter(nil)
	}
	if cfg.DefaultGroup == "" {
		cfg.DefaultGroup = defaultRateLimitGroup
	}
	return func(c *gin.Context) {
		group := cfg.DefaultGroup
		if cfg.GroupFor != nil {
			if g := strings.TrimSpace(cfg.GroupFor(c)); g != "" {
				group = g
			}
		}
		rule, ok := cfg.Rules[group]
		if !ok {
			c.Next()
			return
		}
		principal := strings.TrimSpace(UserIDFromContext(c))
		if principal == "" {
			principal = strings.TrimSpace(c.ClientIP())
		}
		key := principal + "|" + group
		allowed, retryAfter := cfg.Limiter.Allow(c.Request.Context(), key, rule)
		if allowed {
			c.Next()
			return
		}
		retryAfterMs := int(retryAfter / time.Millisecond)
		if retryAfterMs <= 0 {
			retryAfterMs = 1000
		}
		retryAfterSeconds := int(math.Ceil(float64(retryAfterMs) / 1000.0))
		c.Header("Retry-After", strconv.Itoa(retryAfterSeconds))
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"error": gin.H{
				"code":    "rate_limited",
				"message": "too many requests",
				"details": gin.H{"retryAfterMs": retryAfterMs},
			},
		})
	}
}

// RateLimiter is an in-process token bucket limiter. Buckets that have refilled to
// burst are dropped on a periodic sweep; a fresh bucket starts full, so this is lossless.
type RateLimiter struct {
	mu        sync.Mutex
	buckets   map[string]*rateBucket
	now       func() time.Time
	lastSweep time.Time
}

type rateBucket struct {
	tokens float64
	last   time.Time
	rule   RateLimitRule
}

func (b *rateBucket) full(now time.Time) bool {
	elapsed := now.Sub(b.last).Seconds()
	if elapsed < 0 {
		elapsed = 0
	}
	return b.tokens+elapsed*b.rule.Rate >= float64(b.rule.Burst)
}

// sweep runs with l.mu held.
func (l *RateLimiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < bucketSweepInterval {
		return
	}
	l.lastSweep = now
	for key, b := range l.buckets {
		if b.full(now) {
			delete(l.buckets, key)
		}
	}
}

func NewRateLimiter(now func() time.Time) *RateLimiter {
	if now == nil {
		now = time.Now
	}
	return &RateLimiter{
		buckets:   make(map[string]*rateBucket),
		now:       now,
		lastSweep: now(),
	}
}

func (l *RateLimiter) Allow(_ context.Context, key string, rule RateLimitRule) (bool, time.Duration) {
	if l == nil || rule.Rate <= 0 || rule.Burst <= 0 {
		return true, 0
	}
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sweep(now)
	bucket, ok := l.buckets[key]
	if !ok {
		bucket = &rateBucket{tokens: float64(rule.Burst), last: now}
		l.buckets[key] = bucket
	}
	bucket.rule = rule
	elapsed := now.Sub(bucket.last).Seconds()
	if elapsed > 0 {
		bucket.tokens = math.Min(float64(rule.Burst), bucket.tokens+elapsed*rule.Rate)
		bucket.last = now
	}
	if bucket.tokens >= 1 {
		bucket.tokens--
		return true, 0
	}
	waitSec := (1 - bucket.tokens) / rule.Rate
	return false, time.Duration(math.Ceil(waitSec*1000.0)) * time.Millisecond
}

// tokenBucketScript refills and takes one token atomically. Returns {allowed, waitMs}.
var tokenBucketScript = redis.NewScript(`
local rate = tonumber(ARGV[1])
local burst = tonumber(ARGV[2])
local now = tonumber(ARGV[3])
local data = redis.call('HMGET', KEYS[1], 'tokens', 'ts')
local tokens = tonumber(data[1])
local ts = tonumber(data[2])
if tokens == nil or ts == nil then
  tokens = burst
  ts = now
end
local elapsed = math.max(0, now - ts) / 1000
tokens = math.min(burst, tokens + elapsed * rate)
local allowed = 0
local wait = 0
if tokens >= 1 then
  tokens = tokens - 1
  allowed = 1
else
  wait = math.ceil((1 - tokens) / rate * 1000)
end
redis.call('HSET', KEYS[1], 'tokens', tostring(tokens), 'ts', ARGV[3])
redis.call('PEXPIRE', KEYS[1], math.ceil(burst / rate * 1000) + 1000)
return {allowed, wait}
`)

// RedisRateLimiter shares token buckets across API replicas.
type RedisRateLimiter struct {
	client redis.Scripter
	prefix string
	now    func() time.Time
}

func NewRedisRateLimiter(client redis.Scripter, now func() time.Time) *RedisRateLimiter {
	if now == nil {
		now = time.Now
	}
	return &RedisRateLimiter{client: client, prefix: "ratelimit:", now: now}
}

// Allow fails open when Redis is unreachable.
func (l *RedisRateLimiter) Allow(ctx context.Context, key string, rule RateLimitRule) (bool, time.Duration) {
	if rule.Rate <= 0 || rule.Burst <= 0 {
		return true, 0
	}
	res, err := tokenBucketScript.Run(ctx, l.client, []string{l.prefix + key},
		rule.Rate, rule.Burst, l.now().UnixMilli()).Int64Slice()
	if err != nil || len(res) != 2 {
		telemetry.Warn("ratelimit.redis_failed", map[string]any{"key": key, "error": err})
		return true, 0
	}
	if res[0] == 1 {
		return true, 0
	}
	return false, time.Duration(res[1]) * time.Millisecond
}
