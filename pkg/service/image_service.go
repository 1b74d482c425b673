package service

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"imagehub/pkg/logging"
	"imagehub/pkg/media"
	"imagehub/pkg/metrics"
	"imagehub/pkg/storage"

	"github.com/google/uuid"
)

// Categories is the fixed set an image may be filed under.
var Categories = []string{"Nature", "Tech", "Art", "Travel", "Food"}

const (
	maxTitleLength       = 200
	maxDescriptionLength = 2000
)

type ImageService struct {
	images storage.ImageStorage
	media  media.Store
	logger *logging.Logger
	now    func() time.Time
}

func NewImageService(images storage.ImageStorage, store media.Store, logger *logging.Logger) *ImageService {
	return &ImageService{
		images: images,
		media:  store,
		logger: logger,
		now:    time.Now,
	}
}

type UploadImageInput struct {
	Title       string
	Description string
	Category    string
	IsPublic    bool
	Filename    string
	ContentType string
	Body        io.Reader
}

func (in *UploadImageInput) validate() error {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	switch {
	case in.Title == "":
		return fmt.Errorf("%w: title is required", ErrInvalidImage)
	case len(in.Title) > maxTitleLength:
		return fmt.Errorf("%w: title is too long", ErrInvalidImage)
	case len(in.Description) > maxDescriptionLength:
		return fmt.Errorf("%w: description is too long", ErrInvalidImage)
	case in.Body == nil:
		return fmt.Errorf("%w: file is required", ErrInvalidImage)
	case !strings.HasPrefix(in.ContentType, "image/"):
		return fmt.Errorf("%w: only image files are accepted", ErrInvalidImage)
	}
	if !slices.Contains(Categories, in.Category) {
		return fmt.Errorf("%w: %q", ErrInvalidCategory, in.Category)
	}
	return nil
}

// Upload stores the binary on the media host and then records its metadata.
func (s *ImageService) Upload(ctx context.Context, identity Identity, in UploadImageInput) (*storage.Image, error) {
	if identity.IsZero() {
		return nil, ErrUnauthenticated
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	key := media.NewKey("images/"+identity.UserID, in.Filename)
	url, err := s.media.Put(ctx, key, in.ContentType, in.Body)
	if err != nil {
		s.logger.Error(ctx, "image upload: media put failed", "error", err)
		return nil, fmt.Errorf("%w: upload media: %w", ErrTransient, err)
	}

	image := &storage.Image{
		ID:          uuid.NewString(),
		OwnerID:     identity.UserID,
		ImageURL:    url,
		MediaKey:    key,
		Title:       in.Title,
		Description: in.Description,
		Category:    in.Category,
		IsPublic:    in.IsPublic,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.images.Create(ctx, image); err != nil {
		s.logger.LogImageOperation(ctx, "upload", image.ID, false)
		if delErr := s.media.Delete(ctx, key); delErr != nil {
			s.logger.Warn(ctx, "image upload: orphaned media object", "key", key, "error", delErr)
		}
		return nil, fmt.Errorf("%w: create image: %w", ErrTransient, err)
	}

	metrics.ImageUploaded()
	s.logger.LogImageOperation(ctx, "upload", image.ID, true)
	return image, nil
}

// Get returns a public image, or a private one to its owner. Images the
// caller may not see are reported as not found.
func (s *ImageService) Get(ctx context.Context, identity Identity, id string) (*storage.Image, error) {
	image, err := s.images.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: load image: %w", ErrTransient, err)
	}
	if image == nil || !canView(identity, image) {
		return nil, ErrImageNotFound
	}
	return image, nil
}

func (s *ImageService) ListMine(ctx context.Context, identity Identity) ([]*storage.Image, error) {
	if identity.IsZero() {
		return nil, ErrUnauthenticated
	}
	images, err := s.images.ListByOwner(ctx, identity.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: list images: %w", ErrTransient, err)
	}
	return images, nil
}

func (s *ImageService) SetVisibility(ctx context.Context, identity Identity, id string, public bool) (*storage.Image, error) {
	image, err := loadOwnedImage(ctx, s.images, identity, id)
	if err != nil {
		return nil, err
	}
	if err := s.images.SetVisibility(ctx, id, public); err != nil {
		return nil, fmt.Errorf("%w: set visibility: %w", ErrTransient, err)
	}
	image.IsPublic = public
	s.logger.LogImageOperation(ctx, "set_visibility", id, true)
	return image, nil
}

// Delete removes the image record and its media object. Share links that
// point at it stay in place and redeem as missing.
func (s *ImageService) Delete(ctx context.Context, identity Identity, id string) error {
	image, err := loadOwnedImage(ctx, s.images, identity, id)
	if err != nil {
		return err
	}
	if err := s.images.Delete(ctx, id); err != nil {
		s.logger.LogImageOperation(ctx, "delete", id, false)
		return fmt.Errorf("%w: delete image: %w", ErrTransient, err)
	}
	if image.MediaKey != "" {
		if err := s.media.Delete(ctx, image.MediaKey); err != nil {
			s.logger.Warn(ctx, "image delete: media delete failed", "key", image.MediaKey, "error", err)
		}
	}
	s.logger.LogImageOperation(ctx, "delete", id, true)
	return nil
}

func (s *ImageService) Categories() []string {
	return slices.Clone(Categories)
}
