package cache

import (
	"context"
	"errors"
	"time"

	portsrepo "github.com/SscSPs/salesops_app/internal/core/ports/repositories"
	"github.com/redis/go-redis/v9"
)

// keyPrefix namespaces dashboard views in a shared redis.
const keyPrefix = "salesops:"

// RedisCache stores serialized dashboard views with a TTL.
type RedisCache struct {
	client *redis.Client
}

func NewRedis(addr, password string, db int) *RedisCache {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisCache{client: client}
}

var _ portsrepo.Cache = (*RedisCache)(nil)

func (r *RedisCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := r.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

func (r *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return r.client.Set(ctx, keyPrefix+key, value, ttl).Err()
}

func (r *RedisCache) Incr(ctx context.Context, key string) (int64, error) {
	return r.client.Incr(ctx, keyPrefix+key).Result()
}

func (r *RedisCache) Close() error {
	return r.client.Close()
}
