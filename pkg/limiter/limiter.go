// Package limiter provides rate limiting functionality.
package limiter

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	redispkg "github.com/xiaoxiao0301/artist-atlas/pkg/redis"
)

// atomicIncrExpire atomically increments a counter and sets TTL on first increment.
// This prevents the TOCTOU race condition between separate INCR and EXPIRE calls.
var atomicIncrExpire = redis.NewScript(`
local current = redis.call('INCR', KEYS[1])
if current == 1 then
  redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
return current
`)

// RateLimiter provides rate limiting using Redis.
type RateLimiter struct {
	client *redispkg.Client
}

// NewRateLimiter creates a new rate limiter.
func NewRateLimiter(client *redispkg.Client) *RateLimiter {
	return &RateLimiter{client: client}
}

// Allow checks if a request is allowed under the rate limit.
// Uses an atomic Lua script to prevent TOCTOU races between INCR and EXPIRE.
func (rl *RateLimiter) Allow(ctx context.Context, key string, limit int64, window time.Duration) (bool, error) {
	result, err := atomicIncrExpire.Run(ctx, rl.client.Universal(), []string{key}, window.Milliseconds()).Int64()
	if err != nil {
		return false, fmt.Errorf("rate limit check failed: %w", err)
	}
	return result <= limit, nil
}

// Remaining returns the number of requests remaining in the current window.
func (rl *RateLimiter) Remaining(ctx context.Context, key string, limit int64) (int64, error) {
	count, err := rl.client.Get(ctx, key)
	if errors.Is(err, redispkg.ErrKeyNotFound) {
		return limit, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get counter: %w", err)
	}
	current, err := strconv.ParseInt(count, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse counter: %w", err)
	}
	remaining := limit - current
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

// Reset clears the counter for a key.
func (rl *RateLimiter) Reset(ctx context.Context, key string) error {
	return rl.client.Delete(ctx, key)
}
