package rateLimit

import (
	"context"
	"time"

	redisadapter "github.com/lumiclabs/EventHub/internal/adapters/redis"
)

// RateLimiter is a fixed-window counter on Redis, used to slow brute-force
// attempts against the auth forms.
type RateLimiter struct {
	redis *redisadapter.Cache
}

func NewRateLimiter(redis *redisadapter.Cache) *RateLimiter {
	return &RateLimiter{redis: redis}
}

func (rl *RateLimiter) Allow(ctx context.Context, key string, rate int, period time.Duration) bool {
	fullKey := "rl:" + key

	pipe := rl.redis.Client().Pipeline()
	incr := pipe.Incr(ctx, fullKey)
	pipe.Expire(ctx, fullKey, period)

	_, err := pipe.Exec(ctx)
	if err != nil {
		// fail open: a Redis outage must not lock everyone out
		return true
	}

	return incr.Val() <= int64(rate)
}
