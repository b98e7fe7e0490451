package recordstore

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/atakanbattal/Kademe-KYS-sub003/errors"
)

// RedisKV keeps each store key as a Redis string, optionally namespaced by a prefix
type RedisKV struct {
	client redis.Cmdable
	prefix string
}

// NewRedisKV wraps a Redis client
func NewRedisKV(client redis.Cmdable, prefix string) *RedisKV {
	return &RedisKV{client: client, prefix: prefix}
}

// DialRedis connects and pings once; the caller owns the returned client
func DialRedis(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:        addr,
		Password:    password,
		DB:          db,
		DialTimeout: 5 * time.Second,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, errors.WithHint(
			errors.WithSecondaryError(errors.Wrapf(errors.ErrStoreUnavailable, "redis %s", addr), err),
			"check store.redis.addr or set KYS_REDIS_ADDR")
	}
	return client, nil
}

// Get implements KV
func (r *RedisKV) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrapf(err, "redis store: get %s", key)
	}
	return value, true, nil
}

// Set implements KV
func (r *RedisKV) Set(ctx context.Context, key string, value []byte) error {
	if err := r.client.Set(ctx, r.prefix+key, value, 0).Err(); err != nil {
		return errors.Wrapf(err, "redis store: set %s", key)
	}
	return nil
}
