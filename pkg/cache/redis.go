package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

type ShareCache struct {
	client *redis.Client
}

func NewShareCache(client *redis.Client) *ShareCache {
	return &ShareCache{client: client}
}

func (c *ShareCache) Get(ctx context.Context, token string) (*CachedShare, error) {
	val, err := c.client.Get(ctx, shareKey(token)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var cached CachedShare
	if err := json.Unmarshal([]byte(val), &cached); err != nil {
		return nil, err
	}

	return &cached, nil
}

func (c *ShareCache) Set(ctx context.Context, token string, share *CachedShare, ttl time.Duration) error {
	data, err := json.Marshal(share)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, shareKey(token), data, ttl).Err()
}

func (c *ShareCache) Delete(ctx context.Context, token string) error {
	return c.client.Del(ctx, shareKey(token)).Err()
}
