package rate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "ag:rl:"

// Redis shares attempt windows across processes with INCR + EXPIRE
// counters. The key's TTL is the window reset; Redis expiry replaces both
// the lazy prune and the background sweep.
type Redis struct {
	client      redis.UniversalClient
	maxAttempts int
	window      time.Duration
}

// NewRedis wraps an existing client; the caller owns its lifecycle.
func NewRedis(client redis.UniversalClient, maxAttempts int, window time.Duration) *Redis {
	return &Redis{client: client, maxAttempts: maxAttempts, window: window}
}

func (r *Redis) key(key string) string {
	return redisKeyPrefix + key
}

func (r *Redis) Check(ctx context.Context, key string) error {
	count, err := r.client.Get(ctx, r.key(key)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if count < int64(r.maxAttempts) {
		return nil
	}
	ttl, err := r.client.TTL(ctx, r.key(key)).Result()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if ttl < 0 {
		ttl = r.window
	}
	return &RetryError{After: ttl}
}

func (r *Redis) Record(ctx context.Context, key string) error {
	count, err := r.client.Incr(ctx, r.key(key)).Result()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if count == 1 {
		if err := r.client.Expire(ctx, r.key(key), r.window).Err(); err != nil {
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
	}
	return nil
}

func (r *Redis) Reset(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.key(key)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

func (r *Redis) Remaining(ctx context.Context, key string) (int, error) {
	count, err := r.client.Get(ctx, r.key(key)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return r.maxAttempts, nil
		}
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	remaining := r.maxAttempts - int(count)
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

// Close is a no-op: the client belongs to the caller and Redis TTLs handle
// expiry.
func (r *Redis) Close() {}
