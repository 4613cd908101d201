package cache

import (
	"context"
	"strings"
	"time"

	"github.com/ahamo-portal/portal/internal/config"
	"github.com/ahamo-portal/portal/internal/logger"
	goCache "github.com/patrickmn/go-cache"
)

const (
	// DefaultExpiration applies when cache.ttl is unset
	DefaultExpiration = 10 * time.Minute
	// CleanupInterval is how often go-cache sweeps expired entries
	CleanupInterval = 15 * time.Minute
)

// InMemoryCache is a process-local Cache on top of go-cache. When disabled every
// lookup misses and writes are dropped.
type InMemoryCache struct {
	cache   *goCache.Cache
	enabled bool
	logger  *logger.Logger
}

// NewInMemoryCache creates a new InMemoryCache instance
func NewInMemoryCache(cfg *config.Configuration, log *logger.Logger) *InMemoryCache {
	expiration := cfg.Cache.TTL
	if expiration <= 0 {
		expiration = DefaultExpiration
	}

	log.Infow("initializing in-memory cache",
		"enabled", cfg.Cache.Enabled,
		"default_expiration", expiration.String(),
	)

	return &InMemoryCache{
		cache:   goCache.New(expiration, CleanupInterval),
		enabled: cfg.Cache.Enabled,
		logger:  log,
	}
}

// NewCache exposes the in-memory cache behind the Cache interface for dependency injection
func NewCache(c *InMemoryCache) Cache {
	return c
}

// Get retrieves a value from the cache
func (c *InMemoryCache) Get(ctx context.Context, key string) (interface{}, bool) {
	if !c.enabled {
		return nil, false
	}

	span := startSpan(ctx, "get", key)
	value, found := c.cache.Get(key)
	finishSpan(span, &found)

	return value, found
}

// Set adds a value to the cache with the specified expiration
func (c *InMemoryCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) {
	if !c.enabled {
		return
	}

	if expiration <= 0 {
		expiration = goCache.DefaultExpiration
	}

	span := startSpan(ctx, "set", key)
	c.cache.Set(key, value, expiration)
	finishSpan(span, nil)
}

// Delete removes a key from the cache
func (c *InMemoryCache) Delete(_ context.Context, key string) {
	if !c.enabled {
		return
	}
	c.cache.Delete(key)
}

// DeleteByPrefix removes all keys with the given prefix
func (c *InMemoryCache) DeleteByPrefix(_ context.Context, prefix string) {
	if !c.enabled {
		return
	}
	removed := 0
	for k := range c.cache.Items() {
		if strings.HasPrefix(k, prefix) {
			c.cache.Delete(k)
			removed++
		}
	}
	c.logger.Debugw("cache entries invalidated", "prefix", prefix, "removed", removed)
}

// Flush removes all items from the cache
func (c *InMemoryCache) Flush(_ context.Context) {
	if !c.enabled {
		return
	}
	c.cache.Flush()
}
