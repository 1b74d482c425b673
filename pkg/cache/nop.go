package cache

import (
	"context"
	"time"
)

// NopShareCache stores nothing, so every read goes to the database.
type NopShareCache struct{}

func (NopShareCache) Get(context.Context, string) (*CachedShare, error) { return nil, nil }

func (NopShareCache) Set(context.Context, string, *CachedShare, time.Duration) error { return nil }

func (NopShareCache) Delete(context.Context, string) error { return nil }
