// Package cache holds the client-side query cache and the rules that decide
// which reads a successful mutation makes stale.
package cache

import (
	"context"
	"sync"
)

type Cache interface {
	// Read returns the stored value and whether it is still fresh.
	Read(key string) (value any, fresh bool)
	Write(key string, value any)
	Invalidate(keys ...string)
	Clear()
}

type entry struct {
	value any
	fresh bool
}

// stamp identifies the cache state a fetch started from.
type stamp struct {
	epoch uint64
	gen   uint64
}

// QueryCache is an in-memory Cache. Each key carries a generation that every
// invalidation advances, and Clear advances an epoch shared by all keys, so a
// fetch that started before an invalidation cannot store its result as fresh.
type QueryCache struct {
	mu          sync.Mutex
	entries     map[string]entry
	generations map[string]uint64
	epoch       uint64
}

func NewQueryCache() *QueryCache {
	return &QueryCache{
		entries:     make(map[string]entry),
		generations: make(map[string]uint64),
	}
}

func (c *QueryCache) Read(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	return e.value, e.fresh
}

func (c *QueryCache) Write(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{value: value, fresh: true}
}

// Invalidate marks keys stale. Stale values stay readable until refetched.
func (c *QueryCache) Invalidate(keys ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, key := range keys {
		c.generations[key]++
		if e, ok := c.entries[key]; ok {
			e.fresh = false
			c.entries[key] = e
		}
	}
}

func (c *QueryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.epoch++
	c.entries = make(map[string]entry)
}

func (c *QueryCache) snapshot(key string) stamp {
	c.mu.Lock()
	defer c.mu.Unlock()
	return stamp{epoch: c.epoch, gen: c.generations[key]}
}

// writeIfCurrent stores value only if neither key nor the whole cache has been
// invalidated since st was taken.
func (c *QueryCache) writeIfCurrent(key string, value any, st stamp) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.epoch != st.epoch || c.generations[key] != st.gen {
		return false
	}
	c.entries[key] = entry{value: value, fresh: true}
	return true
}

// Fetch returns the fresh value under key, or calls fetch and caches its result.
// The lock is never held while fetch runs.
func Fetch[T any](ctx context.Context, c *QueryCache, key string, fetch func(context.Context) (T, error)) (T, error) {
	if value, fresh := c.Read(key); fresh {
		if typed, ok := value.(T); ok {
			return typed, nil
		}
	}

	st := c.snapshot(key)
	value, err := fetch(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	c.writeIfCurrent(key, value, st)
	return value, nil
}
