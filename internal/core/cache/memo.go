package cache

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

type entry[T any] struct {
	val T
	exp time.Time
}

// Memo 进程内短 TTL 缓存；同 key 并发回源用 singleflight 合并
type Memo[T any] struct {
	ttl time.Duration
	now func() time.Time

	mu sync.RWMutex
	m  map[string]entry[T]
	sf singleflight.Group
}

func NewMemo[T any](ttl time.Duration) *Memo[T] {
	return &Memo[T]{ttl: ttl, now: time.Now, m: make(map[string]entry[T])}
}

func (c *Memo[T]) get(key string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.m[key]
	if !ok || !c.now().Before(e.exp) {
		var zero T
		return zero, false
	}
	return e.val, true
}

// GetOrLoad 先读缓存，未命中或过期则回源；回源失败不缓存
func (c *Memo[T]) GetOrLoad(ctx context.Context, key string, load func(context.Context) (T, error)) (T, error) {
	if v, ok := c.get(key); ok {
		return v, nil
	}
	v, err, _ := c.sf.Do(key, func() (any, error) {
		val, e := load(ctx)
		if e != nil {
			return nil, e
		}
		if c.ttl > 0 {
			c.mu.Lock()
			c.m[key] = entry[T]{val: val, exp: c.now().Add(c.ttl)}
			c.mu.Unlock()
		}
		return val, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

// Invalidate 删除 key
func (c *Memo[T]) Invalidate(key string) {
	c.mu.Lock()
	delete(c.m, key)
	c.mu.Unlock()
}
