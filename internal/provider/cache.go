package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/DINESHPANDIAN-J/Offline-Shop-Location-Analyzer/internal/model"
)

// Cache byte store with TTL
type Cache interface {
	Backend() string
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) error
}

// CacheObserver receives hit/miss events, e.g. the metrics registry
type CacheObserver interface {
	RecordCacheHit(backend string)
	RecordCacheMiss(backend string)
}

// DefaultMemoryEntries entry cap when none is configured
const DefaultMemoryEntries = 1024

// memorySweepInterval minimum time between expiry sweeps
const memorySweepInterval = time.Minute

// MemoryCache in-process cache holding at most maxEntries entries.
// Expired entries are swept on writes; when full, the oldest entry is evicted.
type MemoryCache struct {
	mu         sync.Mutex
	m          map[string]cacheEntry
	maxEntries int
	lastSweep  time.Time
	now        func() time.Time
}

type cacheEntry struct {
	b     []byte
	added time.Time
	exp   time.Time
}

// NewMemoryCache creates an empty memory cache; maxEntries <= 0 uses DefaultMemoryEntries
func NewMemoryCache(maxEntries int) *MemoryCache {
	if maxEntries <= 0 {
		maxEntries = DefaultMemoryEntries
	}
	return &MemoryCache{m: make(map[string]cacheEntry), maxEntries: maxEntries, now: time.Now}
}

// Backend name
func (c *MemoryCache) Backend() string { return "memory" }

// Len number of stored entries, expired or not
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.m)
}

// Get returns a live entry
func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.m[key]
	if !ok {
		return nil, false, nil
	}
	if e.expired(c.now()) {
		delete(c.m, key)
		return nil, false, nil
	}
	return e.b, true, nil
}

// Set stores a copy of val; ttl 0 never expires
func (c *MemoryCache) Set(_ context.Context, key string, val []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if now.Sub(c.lastSweep) >= memorySweepInterval {
		c.sweep(now)
	}
	if _, exists := c.m[key]; !exists && len(c.m) >= c.maxEntries {
		c.sweep(now)
		if len(c.m) >= c.maxEntries {
			c.evictOldest()
		}
	}

	e := cacheEntry{b: append([]byte(nil), val...), added: now}
	if ttl > 0 {
		e.exp = now.Add(ttl)
	}
	c.m[key] = e
	return nil
}

func (c *MemoryCache) sweep(now time.Time) {
	for k, e := range c.m {
		if e.expired(now) {
			delete(c.m, k)
		}
	}
	c.lastSweep = now
}

func (c *MemoryCache) evictOldest() {
	var (
		oldestKey string
		oldest    time.Time
	)
	for k, e := range c.m {
		if oldestKey == "" || e.added.Before(oldest) {
			oldestKey, oldest = k, e.added
		}
	}
	delete(c.m, oldestKey)
}

func (e cacheEntry) expired(now time.Time) bool {
	return !e.exp.IsZero() && now.After(e.exp)
}

// RedisCache cache shared between instances
type RedisCache struct {
	client *redis.Client
	prefix string
}

// NewRedisCache wraps a redis client; keys are prefixed
func NewRedisCache(client *redis.Client, prefix string) *RedisCache {
	return &RedisCache{client: client, prefix: prefix}
}

// Backend name
func (r *RedisCache) Backend() string { return "redis" }

// Get returns (nil, false, nil) on a miss
func (r *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	v, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}
	return v, true, nil
}

// Set stores val with ttl
func (r *RedisCache) Set(ctx context.Context, key string, val []byte, ttl time.Duration) error {
	if err := r.client.Set(ctx, r.prefix+key, val, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Cached serves repeated queries for the same area from a cache.
// Cache errors are logged and fall through to the provider.
type Cached struct {
	next     Provider
	cache    Cache
	ttl      time.Duration
	observer CacheObserver
}

// NewCached wraps next; observer may be nil
func NewCached(next Provider, cache Cache, ttl time.Duration, observer CacheObserver) *Cached {
	return &Cached{next: next, cache: cache, ttl: ttl, observer: observer}
}

// Name of the wrapped provider
func (c *Cached) Name() string { return c.next.Name() }

// FetchPOIs checks the cache before calling the provider; failures are not cached
func (c *Cached) FetchPOIs(ctx context.Context, area model.SearchArea) ([]model.POIRecord, error) {
	key := CacheKey(c.next.Name(), area)

	b, ok, err := c.cache.Get(ctx, key)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("poi cache read failed")
	}
	if ok {
		var pois []model.POIRecord
		if err := json.Unmarshal(b, &pois); err == nil {
			c.hit()
			return pois, nil
		}
		log.Warn().Str("key", key).Msg("poi cache entry corrupt, refetching")
	}
	c.miss()

	pois, err := c.next.FetchPOIs(ctx, area)
	if err != nil {
		return nil, err
	}
	if pois == nil {
		pois = []model.POIRecord{}
	}

	if b, err := json.Marshal(pois); err == nil {
		if err := c.cache.Set(ctx, key, b, c.ttl); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("poi cache write failed")
		}
	}
	return pois, nil
}

func (c *Cached) hit() {
	if c.observer != nil {
		c.observer.RecordCacheHit(c.cache.Backend())
	}
}

func (c *Cached) miss() {
	if c.observer != nil {
		c.observer.RecordCacheMiss(c.cache.Backend())
	}
}

// CacheKey provider name, center rounded to 5 decimals (~1 m) and radius
func CacheKey(provider string, area model.SearchArea) string {
	return fmt.Sprintf("pois:%s:%.5f:%.5f:%d", provider, area.Center.Lat, area.Center.Lng, area.Radius)
}
