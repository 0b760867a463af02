package cache

import (
	"context"
	"fmt"
	"hash/maphash"
	log "log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

const (
	shardCount         = 16
	defaultLoadTimeout = 10 * time.Second
)

// Loader 缓存未命中或过期时回源加载
type Loader[K comparable, V any] func(ctx context.Context, key K) (V, error)

// Tier 二级缓存，读写失败只记录日志
// Get 同时返回条目剩余存活时间，未知时返回 0
type Tier[K comparable, V any] interface {
	Get(ctx context.Context, key K) (V, time.Duration, bool, error)
	Set(ctx context.Context, key K, value V) error
	Delete(ctx context.Context, key K) error
	Clear(ctx context.Context) error
}

type entry[V any] struct {
	value    V
	expireAt time.Time
}

type shard[K comparable, V any] struct {
	mu    sync.RWMutex
	items map[K]entry[V]
	epoch uint64 // Invalidate/Clear 时递增，防止在途加载写回旧值
}

// TTLCache 按 key 分片的读穿透缓存，同一 key 同时只有一个加载者
type TTLCache[K comparable, V any] struct {
	name        string
	ttl         time.Duration
	loadTimeout time.Duration
	now         func() time.Time
	loader      Loader[K, V]
	tier        Tier[K, V]
	seed        maphash.Seed
	shards      [shardCount]*shard[K, V]
	group       singleflight.Group
}

type Option[K comparable, V any] func(*TTLCache[K, V])

// WithClock 注入时钟，测试用
func WithClock[K comparable, V any](now func() time.Time) Option[K, V] {
	return func(c *TTLCache[K, V]) {
		c.now = now
	}
}

// WithLoadTimeout 单次回源的超时，回源不随发起请求的取消而中断
func WithLoadTimeout[K comparable, V any](d time.Duration) Option[K, V] {
	return func(c *TTLCache[K, V]) {
		if d > 0 {
			c.loadTimeout = d
		}
	}
}

// WithTier 挂载二级缓存
func WithTier[K comparable, V any](tier Tier[K, V]) Option[K, V] {
	return func(c *TTLCache[K, V]) {
		c.tier = tier
	}
}

func NewTTLCache[K comparable, V any](name string, ttl time.Duration, loader Loader[K, V], opts ...Option[K, V]) *TTLCache[K, V] {
	c := &TTLCache[K, V]{
		name:        name,
		ttl:         ttl,
		loadTimeout: defaultLoadTimeout,
		now:         time.Now,
		loader:      loader,
		seed:        maphash.MakeSeed(),
	}
	for i := range c.shards {
		c.shards[i] = &shard[K, V]{items: make(map[K]entry[V])}
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *TTLCache[K, V]) TTL() time.Duration {
	return c.ttl
}

// Get 命中且未过期直接返回，否则回源并写回
// 同一 key 的并发请求共享一次回源，每个调用方只受自身 ctx 约束
func (c *TTLCache[K, V]) Get(ctx context.Context, key K) (V, error) {
	var zero V
	s := c.shardFor(key)
	if v, ok := c.lookup(s, key); ok {
		return v, nil
	}

	ch := c.group.DoChan(fmt.Sprint(key), func() (interface{}, error) {
		if v, ok := c.lookup(s, key); ok {
			return v, nil
		}

		s.mu.RLock()
		epoch := s.epoch
		s.mu.RUnlock()

		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.loadTimeout)
		defer cancel()
		v, ttl, err := c.load(loadCtx, key)
		if err != nil {
			return v, err
		}

		s.mu.Lock()
		if s.epoch == epoch {
			s.items[key] = entry[V]{value: v, expireAt: c.now().Add(ttl)}
		}
		s.mu.Unlock()
		return v, nil
	})

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		v, _ := res.Val.(V)
		return v, nil
	}
}

// Peek 只读本地缓存，不回源
func (c *TTLCache[K, V]) Peek(key K) (V, bool) {
	return c.lookup(c.shardFor(key), key)
}

// Invalidate 删除单个 key，同时清理二级缓存
func (c *TTLCache[K, V]) Invalidate(ctx context.Context, key K) {
	s := c.shardFor(key)
	s.mu.Lock()
	delete(s.items, key)
	s.epoch++
	s.mu.Unlock()
	c.group.Forget(fmt.Sprint(key))

	if c.tier != nil {
		if err := c.tier.Delete(ctx, key); err != nil {
			log.WarnContext(ctx, "cache tier delete failed", "cache", c.name, "key", key, "err", err)
		}
	}
}

// Clear 清空全部 key
func (c *TTLCache[K, V]) Clear(ctx context.Context) {
	for _, s := range c.shards {
		s.mu.Lock()
		s.items = make(map[K]entry[V])
		s.epoch++
		s.mu.Unlock()
	}

	if c.tier != nil {
		if err := c.tier.Clear(ctx); err != nil {
			log.WarnContext(ctx, "cache tier clear failed", "cache", c.name, "err", err)
		}
	}
}

// Purge 移除已过期的条目，返回移除数量
func (c *TTLCache[K, V]) Purge() int {
	now := c.now()
	removed := 0
	for _, s := range c.shards {
		s.mu.Lock()
		for k, e := range s.items {
			if !now.Before(e.expireAt) {
				delete(s.items, k)
				removed++
			}
		}
		s.mu.Unlock()
	}
	return removed
}

func (c *TTLCache[K, V]) Len() int {
	n := 0
	for _, s := range c.shards {
		s.mu.RLock()
		n += len(s.items)
		s.mu.RUnlock()
	}
	return n
}

func (c *TTLCache[K, V]) Name() string {
	return c.name
}

func (c *TTLCache[K, V]) lookup(s *shard[K, V], key K) (V, bool) {
	s.mu.RLock()
	e, ok := s.items[key]
	s.mu.RUnlock()
	if !ok || !c.now().Before(e.expireAt) {
		var zero V
		return zero, false
	}
	return e.value, true
}

// load 返回值及其本地存活时间，二级缓存命中时不超过其剩余存活时间
func (c *TTLCache[K, V]) load(ctx context.Context, key K) (V, time.Duration, error) {
	if c.tier != nil {
		v, remaining, ok, err := c.tier.Get(ctx, key)
		if err != nil {
			log.WarnContext(ctx, "cache tier get failed, falling back to loader", "cache", c.name, "key", key, "err", err)
		} else if ok {
			ttl := c.ttl
			if remaining > 0 && remaining < ttl {
				ttl = remaining
			}
			return v, ttl, nil
		}
	}

	v, err := c.loader(ctx, key)
	if err != nil {
		return v, 0, err
	}

	if c.tier != nil {
		if err := c.tier.Set(ctx, key, v); err != nil {
			log.WarnContext(ctx, "cache tier set failed", "cache", c.name, "key", key, "err", err)
		}
	}
	return v, c.ttl, nil
}

func (c *TTLCache[K, V]) shardFor(key K) *shard[K, V] {
	h := maphash.Comparable(c.seed, key)
	return c.shards[h%shardCount]
}
