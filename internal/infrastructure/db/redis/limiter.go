package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// LoginLimiter caps login attempts per key (usually the client IP) within a
// fixed window. Key format: login_attempts:<key>
type LoginLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
}

// NewLoginLimiter creates a limiter allowing limit attempts per window.
func NewLoginLimiter(client *redis.Client, limit int, window time.Duration) *LoginLimiter {
	if window <= 0 {
		window = time.Minute
	}
	return &LoginLimiter{client: client, limit: limit, window: window}
}

// Allow records one attempt and reports whether it is within the limit. On a
// Redis error it returns true so that an unavailable limiter never locks
// users out; the error is returned for logging.
func (l *LoginLimiter) Allow(ctx context.Context, key string) (bool, error) {
	k := fmt.Sprintf("login_attempts:%s", key)

	n, err := l.client.Incr(ctx, k).Result()
	if err != nil {
		return true, fmt.Errorf("rate limit incr: %w", err)
	}
	if n == 1 {
		if err := l.client.Expire(ctx, k, l.window).Err(); err != nil {
			return true, fmt.Errorf("rate limit expire: %w", err)
		}
	}
	return n <= int64(l.limit), nil
}
