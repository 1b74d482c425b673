package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"imagehub/pkg/logging"
	mediamemory "imagehub/pkg/media/memory"
	"imagehub/pkg/storage"
	"imagehub/pkg/storage/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingImageCreate struct {
	*memory.ImageStorage
}

func (failingImageCreate) Create(context.Context, *storage.Image) error {
	return errStoreDown
}

type failingMedia struct{}

func (failingMedia) Put(context.Context, string, string, io.Reader) (string, error) {
	return "", errors.New("bucket unavailable")
}

func (failingMedia) Delete(context.Context, string) error { return nil }

func uploadInput(title string) UploadImageInput {
	return UploadImageInput{
		Title:       title,
		Description: "  taken at dawn ",
		Category:    "Nature",
		Filename:    "Sunrise.JPG",
		ContentType: "image/jpeg",
		Body:        strings.NewReader("jpeg-bytes"),
	}
}

func TestUpload(t *testing.T) {
	ctx := context.Background()
	images := memory.NewImageStorage()
	store := mediamemory.NewStorage("https://cdn.example")
	svc := NewImageService(images, store, logging.Discard())

	image, err := svc.Upload(ctx, alice, uploadInput(" Sunrise "))
	require.NoError(t, err)

	assert.NotEmpty(t, image.ID)
	assert.Equal(t, alice.UserID, image.OwnerID)
	assert.Equal(t, "Sunrise", image.Title)
	assert.Equal(t, "taken at dawn", image.Description)
	assert.True(t, strings.HasPrefix(image.MediaKey, "images/alice/"))
	assert.True(t, strings.HasSuffix(image.MediaKey, ".jpg"))
	assert.Equal(t, "https://cdn.example/"+image.MediaKey, image.ImageURL)

	body, ok := store.Get(image.MediaKey)
	require.True(t, ok)
	assert.Equal(t, "jpeg-bytes", string(body))

	stored, err := images.GetByID(ctx, image.ID)
	require.NoError(t, err)
	assert.Equal(t, image, stored)
}

func TestUploadValidation(t *testing.T) {
	ctx := context.Background()
	svc := NewImageService(memory.NewImageStorage(), mediamemory.NewStorage("https://cdn.example"), logging.Discard())

	tests := []struct {
		name    string
		mutate  func(in *UploadImageInput)
		wantErr error
	}{
		{"missing title", func(in *UploadImageInput) { in.Title = "  " }, ErrInvalidImage},
		{"long title", func(in *UploadImageInput) { in.Title = strings.Repeat("a", 201) }, ErrInvalidImage},
		{"not an image", func(in *UploadImageInput) { in.ContentType = "application/pdf" }, ErrInvalidImage},
		{"no body", func(in *UploadImageInput) { in.Body = nil }, ErrInvalidImage},
		{"unknown category", func(in *UploadImageInput) { in.Category = "Cars" }, ErrInvalidCategory},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := uploadInput("Sunrise")
			tt.mutate(&in)
			_, err := svc.Upload(ctx, alice, in)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	_, err := svc.Upload(ctx, Identity{}, uploadInput("Sunrise"))
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestUploadFailures(t *testing.T) {
	ctx := context.Background()

	t.Run("media failure", func(t *testing.T) {
		svc := NewImageService(memory.NewImageStorage(), failingMedia{}, logging.Discard())
		_, err := svc.Upload(ctx, alice, uploadInput("Sunrise"))
		assert.ErrorIs(t, err, ErrTransient)
	})

	t.Run("record failure removes the uploaded object", func(t *testing.T) {
		store := mediamemory.NewStorage("https://cdn.example")
		svc := NewImageService(failingImageCreate{memory.NewImageStorage()}, store, logging.Discard())

		_, err := svc.Upload(ctx, alice, uploadInput("Sunrise"))
		assert.ErrorIs(t, err, ErrTransient)
		assert.Zero(t, store.Len())
	})
}

func TestImageVisibility(t *testing.T) {
	ctx := context.Background()
	images := memory.NewImageStorage()
	svc := NewImageService(images, mediamemory.NewStorage("https://cdn.example"), logging.Discard())
	seedImage(images, "img_private", alice.UserID, false)
	seedImage(images, "img_public", alice.UserID, true)

	_, err := svc.Get(ctx, alice, "img_private")
	assert.NoError(t, err)
	_, err = svc.Get(ctx, bob, "img_private")
	assert.ErrorIs(t, err, ErrImageNotFound)
	_, err = svc.Get(ctx, Identity{}, "img_public")
	assert.NoError(t, err)

	_, err = svc.SetVisibility(ctx, bob, "img_private", true)
	assert.ErrorIs(t, err, ErrNotOwner)

	image, err := svc.SetVisibility(ctx, alice, "img_private", true)
	require.NoError(t, err)
	assert.True(t, image.IsPublic)
	_, err = svc.Get(ctx, bob, "img_private")
	assert.NoError(t, err)
}

func TestListMine(t *testing.T) {
	ctx := context.Background()
	images := memory.NewImageStorage()
	svc := NewImageService(images, mediamemory.NewStorage("https://cdn.example"), logging.Discard())
	seedImage(images, "img_a", alice.UserID, false)
	seedImage(images, "img_b", bob.UserID, true)

	mine, err := svc.ListMine(ctx, alice)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "img_a", mine[0].ID)
}

func TestDeleteImage(t *testing.T) {
	ctx := context.Background()
	images := memory.NewImageStorage()
	store := mediamemory.NewStorage("https://cdn.example")
	svc := NewImageService(images, store, logging.Discard())

	image, err := svc.Upload(ctx, alice, uploadInput("Sunrise"))
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, bob, image.ID), ErrNotOwner)
	require.NoError(t, svc.Delete(ctx, alice, image.ID))

	gone, err := images.GetByID(ctx, image.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
	_, ok := store.Get(image.MediaKey)
	assert.False(t, ok)

	assert.ErrorIs(t, svc.Delete(ctx, alice, image.ID), ErrImageNotFound)
}

func TestCategoriesIsACopy(t *testing.T) {
	svc := NewImageService(nil, nil, logging.Discard())
	cats := svc.Categories()
	cats[0] = "Changed"
	assert.Equal(t, "Nature", svc.Categories()[0])
}
