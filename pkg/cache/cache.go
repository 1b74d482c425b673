package cache

import (
	"context"
	"time"
)

// ShareCacheInterface caches resolved share records for redemption. A miss
// is reported as (nil, nil).
type ShareCacheInterface interface {
	Get(ctx context.Context, token string) (*CachedShare, error)
	Set(ctx context.Context, token string, share *CachedShare, ttl time.Duration) error
	Delete(ctx context.Context, token string) error
}

// CachedShare holds what redemption needs. The passcode hash is not cached;
// HasPasscode sends protected links back to the database.
type CachedShare struct {
	ImageID     string    `json:"image_id"`
	HasPasscode bool      `json:"has_passcode"`
	ExpiresAt   time.Time `json:"expires_at"`
	CreatedAt   time.Time `json:"created_at"`
}

func shareKey(token string) string {
	return "share:" + token
}
