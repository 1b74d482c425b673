package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryShareCache is the in-process ShareCacheInterface used when no
// Redis URL is configured.
type MemoryShareCache struct {
	store *gocache.Cache
}

func NewMemoryShareCache(cleanupInterval time.Duration) *MemoryShareCache {
	return &MemoryShareCache{store: gocache.New(gocache.NoExpiration, cleanupInterval)}
}

func (c *MemoryShareCache) Get(_ context.Context, token string) (*CachedShare, error) {
	val, ok := c.store.Get(shareKey(token))
	if !ok {
		return nil, nil
	}
	cached := val.(CachedShare)
	return &cached, nil
}

func (c *MemoryShareCache) Set(_ context.Context, token string, share *CachedShare, ttl time.Duration) error {
	c.store.Set(shareKey(token), *share, ttl)
	return nil
}

func (c *MemoryShareCache) Delete(_ context.Context, token string) error {
	c.store.Delete(shareKey(token))
	return nil
}
