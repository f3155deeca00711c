package cache

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"samevibe-service/internal/observability"
)

// Cache is a read-through helper over a Store. A nil store degrades to
// computing fresh on every read and never fails the caller.
type Cache struct {
	store Store
}

// New builds a Cache. store may be nil.
func New(store Store) *Cache {
	return &Cache{store: store}
}

// GetOrCompute returns the cached value under key into dest, or runs
// compute, stores the result with the given TTL and returns it. Backend
// failures count as misses.
func (c *Cache) GetOrCompute(ctx context.Context, key string, ttl time.Duration, dest interface{}, compute func(context.Context) (interface{}, error)) error {
	if c.store != nil {
		raw, ok, err := c.store.Get(ctx, key)
		if err != nil {
			observability.IncCacheError()
			log.Printf("cache get failed key=%s: %v", key, err)
		} else if ok {
			if err := json.Unmarshal([]byte(raw), dest); err == nil {
				observability.IncCacheHit()
				return nil
			}
			// Corrupt entry: drop it and recompute.
			_ = c.store.Del(ctx, key)
		}
	}
	observability.IncCacheMiss()

	value, err := compute(ctx)
	if err != nil {
		return err
	}

	body, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if c.store != nil {
		if err := c.store.SetEx(ctx, key, ttl, string(body)); err != nil {
			observability.IncCacheError()
			log.Printf("cache set failed key=%s: %v", key, err)
		}
	}
	return json.Unmarshal(body, dest)
}

// Invalidate deletes keys after a committed write. Failures are logged
// and swallowed: the entries simply age out on their TTL.
func (c *Cache) Invalidate(ctx context.Context, keys ...string) {
	if c.store == nil || len(keys) == 0 {
		return
	}
	if err := c.store.Del(ctx, keys...); err != nil {
		observability.IncCacheError()
		log.Printf("cache invalidate failed keys=%v: %v", keys, err)
	}
}
