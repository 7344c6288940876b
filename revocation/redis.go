package revocation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "ag:rv:"

// ErrUnavailable indicates the Redis backend could not be reached.
var ErrUnavailable = errors.New("revocation backend unavailable")

// Redis shares the revocation set across processes. Each revoked jti becomes
// a key whose TTL matches the token's remaining lifetime, so Redis expiry
// does the pruning.
type Redis struct {
	client redis.UniversalClient
}

// NewRedis wraps an existing client; the caller owns its lifecycle.
func NewRedis(client redis.UniversalClient) *Redis {
	return &Redis{client: client}
}

func redisKey(tokenID string) string {
	return redisKeyPrefix + tokenID
}

// Revoke marks the jti revoked for the token's remaining lifetime. A token
// already past expiry is ignored. A zero expiresAt (undecodable exp) falls
// back to a 24h retention so the entry cannot live forever.
func (r *Redis) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	ttl := 24 * time.Hour
	if !expiresAt.IsZero() {
		ttl = time.Until(expiresAt)
		if ttl <= 0 {
			return nil
		}
	}
	if err := r.client.Set(ctx, redisKey(tokenID), "1", ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// IsRevoked reports whether the jti is present in the shared set.
func (r *Redis) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := r.client.Exists(ctx, redisKey(tokenID)).Result()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return n > 0, nil
}
