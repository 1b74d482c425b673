package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"imagehub/pkg/cache"
	"imagehub/pkg/storage"
	"imagehub/pkg/storage/memory"
)

var errStoreDown = errors.New("connection refused")

var t0 = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

type clock struct {
	now time.Time
}

func (c *clock) Now() time.Time { return c.now }

func (c *clock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type failingShareStorage struct {
	*memory.ShareStorage
	failCreate bool
	failGet    bool
}

func (s *failingShareStorage) Create(ctx context.Context, share *storage.ShareRecord) error {
	if s.failCreate {
		return errStoreDown
	}
	return s.ShareStorage.Create(ctx, share)
}

func (s *failingShareStorage) GetByToken(ctx context.Context, token string) (*storage.ShareRecord, error) {
	if s.failGet {
		return nil, errStoreDown
	}
	return s.ShareStorage.GetByToken(ctx, token)
}

type failingImageStorage struct {
	*memory.ImageStorage
	failGet bool
}

func (s *failingImageStorage) GetByID(ctx context.Context, id string) (*storage.Image, error) {
	if s.failGet {
		return nil, errStoreDown
	}
	return s.ImageStorage.GetByID(ctx, id)
}

type failingProfileStorage struct {
	*memory.ProfileStorage
	failUpsert bool
}

func (s *failingProfileStorage) Upsert(ctx context.Context, profile *storage.Profile) error {
	if s.failUpsert {
		return errStoreDown
	}
	return s.ProfileStorage.Upsert(ctx, profile)
}

// countingCache records hits so tests can tell cache reads from store reads.
type countingCache struct {
	cache.ShareCacheInterface
	hits atomic.Int32
}

func (c *countingCache) Get(ctx context.Context, token string) (*cache.CachedShare, error) {
	cached, err := c.ShareCacheInterface.Get(ctx, token)
	if cached != nil {
		c.hits.Add(1)
	}
	return cached, err
}

var (
	alice = Identity{UserID: "alice", Email: "alice@example.com"}
	bob   = Identity{UserID: "bob", Email: "bob@example.com"}
)

func seedImage(images storage.ImageStorage, id, owner string, public bool) *storage.Image {
	image := &storage.Image{
		ID:          id,
		OwnerID:     owner,
		ImageURL:    "https://cdn.example/" + id + ".jpg",
		MediaKey:    "images/" + id + ".jpg",
		Title:       "Title " + id,
		Description: "Description " + id,
		Category:    "Nature",
		IsPublic:    public,
		CreatedAt:   t0,
	}
	_ = images.Create(context.Background(), image)
	return image
}

// clockCache expires entries against the test clock instead of wall time.
type clockCache struct {
	clock   *clock
	mu      sync.Mutex
	entries map[string]clockEntry
}

type clockEntry struct {
	share   cache.CachedShare
	expires time.Time
}

func newClockCache(c *clock) *clockCache {
	return &clockCache{clock: c, entries: make(map[string]clockEntry)}
}

func (c *clockCache) Get(_ context.Context, token string) (*cache.CachedShare, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[token]
	if !ok || !c.clock.Now().Before(entry.expires) {
		return nil, nil
	}
	share := entry.share
	return &share, nil
}

func (c *clockCache) Set(_ context.Context, token string, share *cache.CachedShare, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[token] = clockEntry{share: *share, expires: c.clock.Now().Add(ttl)}
	return nil
}

func (c *clockCache) Delete(_ context.Context, token string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, token)
	return nil
}
