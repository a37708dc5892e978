package redisstore

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenDenylist records logged-out token ids until the token would have
// expired anyway, after which the key lapses on its own.
type TokenDenylist struct {
	RDB *redis.Client
}

func NewTokenDenylist(rdb *redis.Client) *TokenDenylist {
	return &TokenDenylist{RDB: rdb}
}

func revokedKey(jti string) string {
	return "auth:revoked:" + jti
}

func (d *TokenDenylist) Revoke(ctx context.Context, jti string, until time.Time) error {
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil
	}
	return d.RDB.Set(ctx, revokedKey(jti), "1", ttl).Err()
}

func (d *TokenDenylist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := d.RDB.Exists(ctx, revokedKey(jti)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
