package memory

import (
	"context"
	"strings"
	"testing"

	"imagehub/pkg/media"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorage(t *testing.T) {
	ctx := context.Background()
	s := NewStorage("http://media.local/")

	url, err := s.Put(ctx, "images/a.png", "image/png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "http://media.local/images/a.png", url)

	data, ok := s.Get("images/a.png")
	require.True(t, ok)
	assert.Equal(t, "png-bytes", string(data))

	require.NoError(t, s.Delete(ctx, "images/a.png"))
	_, ok = s.Get("images/a.png")
	assert.False(t, ok)

	assert.ErrorIs(t, s.Delete(ctx, "images/a.png"), media.ErrNotFound)
}
