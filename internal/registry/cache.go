// internal/registry/cache.go
//
// Short-TTL read-through cache in front of byName/byID.
//
// Context
// -------
// spec.md allows `lookup_by_name`/`lookup_by_id` to be "O(1)-ish... cache
// acceptable with short TTL, or read-through every call." This file
// implements the cache option the way the teacher's tenant.Cache
// coalesces concurrent cold-loads with singleflight, generalized from a
// host-keyed sync.Map to two small keyed-by-name and keyed-by-id maps with
// a uniform TTL. Entries are invalidated synchronously on create/delete so
// a tenant never appears available after delete() returns, nor absent
// right after create() returns (Testable Property 7).
//
// When cfg.Cache.Provider == "redis", cache reads/writes also go through a
// Redis client (see redis.go) so multiple API processes share one warm
// cache; the in-process map stays as an L1 in front of it either way.
package registry

import (
	"sync"
	"time"
)

type cacheEntry struct {
	rec     Record
	cachedAt time.Time
}

type ttlCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	byName  map[string]cacheEntry
	byID    map[uint64]cacheEntry
	redis   *redisFront // nil when cache.provider == "memory"
}

func newTTLCache(ttl time.Duration, rf *redisFront) *ttlCache {
	return &ttlCache{
		ttl:    ttl,
		byName: make(map[string]cacheEntry),
		byID:   make(map[uint64]cacheEntry),
		redis:  rf,
	}
}

func (c *ttlCache) getByName(name string) (Record, bool) {
	c.mu.RLock()
	e, ok := c.byName[name]
	c.mu.RUnlock()
	if ok && time.Since(e.cachedAt) < c.ttl {
		return e.rec, true
	}
	if c.redis != nil {
		if rec, ok := c.redis.getByName(name); ok {
			c.store(rec)
			return rec, true
		}
	}
	return Record{}, false
}

func (c *ttlCache) getByID(id uint64) (Record, bool) {
	c.mu.RLock()
	e, ok := c.byID[id]
	c.mu.RUnlock()
	if ok && time.Since(e.cachedAt) < c.ttl {
		return e.rec, true
	}
	if c.redis != nil {
		if rec, ok := c.redis.getByID(id); ok {
			c.store(rec)
			return rec, true
		}
	}
	return Record{}, false
}

func (c *ttlCache) store(rec Record) {
	now := time.Now()
	c.mu.Lock()
	c.byName[rec.Name] = cacheEntry{rec: rec, cachedAt: now}
	c.byID[rec.ID] = cacheEntry{rec: rec, cachedAt: now}
	c.mu.Unlock()
	if c.redis != nil {
		c.redis.store(rec)
	}
}

func (c *ttlCache) invalidate(name string, id uint64) {
	c.mu.Lock()
	delete(c.byName, name)
	delete(c.byID, id)
	c.mu.Unlock()
	if c.redis != nil {
		c.redis.invalidate(name, id)
	}
}
