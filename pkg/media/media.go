package media

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"

	"github.com/oklog/ulid/v2"
)

var ErrNotFound = errors.New("media object not found")

// Store is the media host. Put returns the public URL of the stored object.
type Store interface {
	Put(ctx context.Context, key, contentType string, body io.Reader) (string, error)
	Delete(ctx context.Context, key string) error
}

// NewKey builds an object key under prefix, keeping the file extension of
// the uploaded name.
func NewKey(prefix, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return path.Join(prefix, ulid.Make().String()+ext)
}
