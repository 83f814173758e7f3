package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pelyams/car_catalog_service/internal/domain"
)

const (
	DefaultKeyPrefix = "catalog:"
	scanBatchSize    = 500
)

// RedisCache keeps every entry under a single key prefix, so Clear only
// removes catalog responses and leaves the rest of the database alone.
type RedisCache struct {
	client *redis.Client
	prefix string
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client, prefix: DefaultKeyPrefix}
}

func (r *RedisCache) key(key string) string {
	return r.prefix + key
}

func (r *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := r.client.Get(ctx, r.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%w: no cached response for %s", domain.ErrNotFound, key)
		}
		return nil, fmt.Errorf("%w: failed to get %s from cache: %s", domain.ErrInternalCache, key, err.Error())
	}
	return data, nil
}

func (r *RedisCache) Put(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := r.client.Set(ctx, r.key(key), value, ttl).Err(); err != nil {
		return fmt.Errorf("%w: failed to store %s to cache: %s", domain.ErrInternalCache, key, err.Error())
	}
	return nil
}

func (r *RedisCache) Clear(ctx context.Context) error {
	iter := r.client.Scan(ctx, 0, r.prefix+"*", scanBatchSize).Iterator()
	batch := make([]string, 0, scanBatchSize)
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == scanBatchSize {
			if err := r.client.Unlink(ctx, batch...).Err(); err != nil {
				return fmt.Errorf("%w: failed to clear cache: %s", domain.ErrInternalCache, err.Error())
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("%w: failed to clear cache: %s", domain.ErrInternalCache, err.Error())
	}
	if len(batch) > 0 {
		if err := r.client.Unlink(ctx, batch...).Err(); err != nil {
			return fmt.Errorf("%w: failed to clear cache: %s", domain.ErrInternalCache, err.Error())
		}
	}
	return nil
}

func (r *RedisCache) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: ping failed: %s", domain.ErrInternalCache, err.Error())
	}
	return nil
}
