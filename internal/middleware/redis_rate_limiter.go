package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/mroshb/duo_finder/pkg/errors"
	goredis "github.com/redis/go-redis/v9"
)

// RedisRateLimiter shares fixed windows between instances with INCR and PEXPIRE
type RedisRateLimiter struct {
	rdb    goredis.Cmdable
	prefix string
	limits Limits
	period time.Duration
}

func NewRedisRateLimiter(rdb goredis.Cmdable, prefix string, limits Limits, period time.Duration) *RedisRateLimiter {
	if prefix == "" {
		prefix = "ratelimit:"
	}
	return &RedisRateLimiter{rdb: rdb, prefix: prefix, limits: limits, period: period}
}

func (rl *RedisRateLimiter) key(action, key string) string {
	return fmt.Sprintf("%s%s:%s", rl.prefix, action, key)
}

func (rl *RedisRateLimiter) Allow(ctx context.Context, action, key string) (Decision, error) {
	limit, limited := rl.limits[action]
	if !limited {
		return Decision{Allowed: true, Remaining: -1}, nil
	}

	k := rl.key(action, key)
	count, err := rl.rdb.Incr(ctx, k).Result()
	if err != nil {
		return Decision{}, errors.Wrap(err, errors.ErrCodeDependencyUnavailable, "rate limiter unavailable")
	}
	if count == 1 {
		if err := rl.rdb.PExpire(ctx, k, rl.period).Err(); err != nil {
			return Decision{}, errors.Wrap(err, errors.ErrCodeDependencyUnavailable, "rate limiter unavailable")
		}
	}

	ttl, err := rl.rdb.PTTL(ctx, k).Result()
	if err != nil {
		return Decision{}, errors.Wrap(err, errors.ErrCodeDependencyUnavailable, "rate limiter unavailable")
	}
	if ttl < 0 {
		// The expiry was lost (crash between INCR and PEXPIRE); restart the window.
		_ = rl.rdb.PExpire(ctx, k, rl.period).Err()
		ttl = rl.period
	}

	remaining := limit - int(count)
	if remaining < 0 {
		return Decision{Allowed: false, Remaining: 0, ResetIn: ttl}, nil
	}
	return Decision{Allowed: true, Remaining: remaining, ResetIn: ttl}, nil
}
