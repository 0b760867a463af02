package cache

import (
	rdbutil "Courier/internal/pkg/redis"
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

// RedisTier 基于 Redis 的二级缓存，值以 JSON 存储
type RedisTier[K comparable, V any] struct {
	rdb    redis.Cmdable
	prefix string
	ttl    time.Duration
}

func NewRedisTier[K comparable, V any](rdb redis.Cmdable, prefix string, ttl time.Duration) *RedisTier[K, V] {
	return &RedisTier[K, V]{rdb: rdb, prefix: prefix, ttl: ttl}
}

func (t *RedisTier[K, V]) Key(key K) string {
	return t.prefix + fmt.Sprint(key)
}

func (t *RedisTier[K, V]) Get(ctx context.Context, key K) (V, time.Duration, bool, error) {
	var v V
	raw, remaining, ok, err := rdbutil.GetBytesWithTTL(ctx, t.rdb, t.Key(key))
	if err != nil || !ok {
		return v, 0, false, err
	}
	if err = json.Unmarshal(raw, &v); err != nil {
		return v, 0, false, fmt.Errorf("decode cached value: %w", err)
	}
	return v, remaining, true, nil
}

func (t *RedisTier[K, V]) Set(ctx context.Context, key K, value V) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return rdbutil.SetWithExpiration(ctx, t.rdb, t.Key(key), raw, t.ttl)
}

func (t *RedisTier[K, V]) Delete(ctx context.Context, key K) error {
	return rdbutil.DeleteKey(ctx, t.rdb, t.Key(key))
}

func (t *RedisTier[K, V]) Clear(ctx context.Context) error {
	_, err := rdbutil.DeleteByPrefix(ctx, t.rdb, t.prefix)
	return err
}
