package memory

import (
	"context"
	"testing"
	"time"

	"imagehub/pkg/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShareStorageDeleteExpired(t *testing.T) {
	ctx := context.Background()
	s := NewShareStorage()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, s.Create(ctx, &storage.ShareRecord{Token: "old", ExpiresAt: now.Add(-time.Minute)}))
	require.NoError(t, s.Create(ctx, &storage.ShareRecord{Token: "edge", ExpiresAt: now}))
	require.NoError(t, s.Create(ctx, &storage.ShareRecord{Token: "live", ExpiresAt: now.Add(time.Minute)}))

	n, err := s.DeleteExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	live, err := s.GetByToken(ctx, "live")
	require.NoError(t, err)
	assert.NotNil(t, live)

	gone, err := s.GetByToken(ctx, "edge")
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestImageStorageReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewImageStorage()
	require.NoError(t, s.Create(ctx, &storage.Image{ID: "img_1", Title: "Sunset"}))

	got, err := s.GetByID(ctx, "img_1")
	require.NoError(t, err)
	got.Title = "changed"

	again, err := s.GetByID(ctx, "img_1")
	require.NoError(t, err)
	assert.Equal(t, "Sunset", again.Title)
}

func TestProfileFavorites(t *testing.T) {
	ctx := context.Background()
	s := NewProfileStorage()

	require.NoError(t, s.AddFavorite(ctx, "u1", "img_1"))
	require.NoError(t, s.AddFavorite(ctx, "u1", "img_1"))
	favs, err := s.ListFavorites(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"img_1"}, favs)

	require.NoError(t, s.RemoveFavorite(ctx, "u1", "img_1"))
	ok, err := s.IsFavorite(ctx, "u1", "img_1")
	require.NoError(t, err)
	assert.False(t, ok)
}
