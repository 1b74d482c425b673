package cache

import (
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Open picks the share cache for a process. With a Redis URL every process
// shares one cache, so a revocation anywhere evicts the entry everywhere.
// Without one, only a process that also performs revocations
// (ownsRevocation) may keep an in-process cache; any other process would
// go on serving a revoked link until the entry expired, so it gets a
// NopShareCache.
func Open(redisURL string, ownsRevocation bool) (ShareCacheInterface, func(), error) {
	if redisURL != "" {
		opt, err := redis.ParseURL(redisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("parse redis url: %w", err)
		}
		client := redis.NewClient(opt)
		return NewShareCache(client), func() { client.Close() }, nil
	}
	if ownsRevocation {
		return NewMemoryShareCache(10 * time.Minute), func() {}, nil
	}
	return NopShareCache{}, func() {}, nil
}
