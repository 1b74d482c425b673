package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"imagehub/pkg/logging"
	"imagehub/pkg/media"
	"imagehub/pkg/storage"
)

const (
	maxUsernameLength = 50
	// Only the first interests drive recommendations.
	maxRecommendationInterests = 10
)

type ProfileService struct {
	profiles storage.ProfileStorage
	images   storage.ImageStorage
	media    media.Store
	logger   *logging.Logger
	now      func() time.Time
}

func NewProfileService(profiles storage.ProfileStorage, images storage.ImageStorage, store media.Store, logger *logging.Logger) *ProfileService {
	return &ProfileService{
		profiles: profiles,
		images:   images,
		media:    store,
		logger:   logger,
		now:      time.Now,
	}
}

// Photo is an optional profile picture upload.
type Photo struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

type UpdateProfileInput struct {
	Username  string
	Interests []string
	Photo     *Photo
}

// GetProfile returns the caller's profile, or an unsaved one seeded from the
// identity when none exists yet.
func (s *ProfileService) GetProfile(ctx context.Context, identity Identity) (*storage.Profile, error) {
	if identity.IsZero() {
		return nil, ErrUnauthenticated
	}
	profile, err := s.profiles.Get(ctx, identity.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: load profile: %w", ErrTransient, err)
	}
	if profile == nil {
		profile = &storage.Profile{UserID: identity.UserID, Email: identity.Email, Interests: []string{}}
	}
	return profile, nil
}

func (s *ProfileService) UpdateProfile(ctx context.Context, identity Identity, in UpdateProfileInput) (*storage.Profile, error) {
	profile, err := s.GetProfile(ctx, identity)
	if err != nil {
		return nil, err
	}

	username := strings.TrimSpace(in.Username)
	if len(username) > maxUsernameLength {
		return nil, fmt.Errorf("%w: username is too long", ErrInvalidProfile)
	}

	var photoKey string
	if in.Photo != nil {
		if !strings.HasPrefix(in.Photo.ContentType, "image/") {
			return nil, fmt.Errorf("%w: photo must be an image", ErrInvalidProfile)
		}
		photoKey = media.NewKey("profiles/"+identity.UserID, in.Photo.Filename)
		url, err := s.media.Put(ctx, photoKey, in.Photo.ContentType, in.Photo.Body)
		if err != nil {
			return nil, fmt.Errorf("%w: upload photo: %w", ErrTransient, err)
		}
		profile.PhotoURL = url
	}

	now := s.now().UTC()
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = now
	}
	profile.Email = identity.Email
	profile.Username = username
	profile.Interests = normalizeInterests(in.Interests)
	profile.UpdatedAt = now

	if err := s.profiles.Upsert(ctx, profile); err != nil {
		s.logger.Error(ctx, "profile update failed", "error", err)
		if photoKey != "" {
			if delErr := s.media.Delete(ctx, photoKey); delErr != nil {
				s.logger.Warn(ctx, "profile update: orphaned media object", "key", photoKey, "error", delErr)
			}
		}
		return nil, fmt.Errorf("%w: save profile: %w", ErrTransient, err)
	}
	return profile, nil
}

// ToggleFavorite adds imageID to the caller's favorites, or removes it if it
// is already there. It reports whether the image is a favorite afterwards.
func (s *ProfileService) ToggleFavorite(ctx context.Context, identity Identity, imageID string) (bool, error) {
	if identity.IsZero() {
		return false, ErrUnauthenticated
	}
	image, err := s.images.GetByID(ctx, imageID)
	if err != nil {
		return false, fmt.Errorf("%w: load image: %w", ErrTransient, err)
	}
	if image == nil || !canView(identity, image) {
		return false, ErrImageNotFound
	}

	favorite, err := s.profiles.IsFavorite(ctx, identity.UserID, imageID)
	if err != nil {
		return false, fmt.Errorf("%w: load favorite: %w", ErrTransient, err)
	}
	if favorite {
		err = s.profiles.RemoveFavorite(ctx, identity.UserID, imageID)
	} else {
		err = s.profiles.AddFavorite(ctx, identity.UserID, imageID)
	}
	if err != nil {
		return false, fmt.Errorf("%w: toggle favorite: %w", ErrTransient, err)
	}
	return !favorite, nil
}

// ListFavorites returns the caller's favorite images that still exist and
// are visible to them. With ownedOnly, only the caller's own images are kept.
func (s *ProfileService) ListFavorites(ctx context.Context, identity Identity, ownedOnly bool) ([]*storage.Image, error) {
	if identity.IsZero() {
		return nil, ErrUnauthenticated
	}
	ids, err := s.profiles.ListFavorites(ctx, identity.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: list favorites: %w", ErrTransient, err)
	}
	if len(ids) == 0 {
		return []*storage.Image{}, nil
	}

	images, err := s.images.ListByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("%w: load favorites: %w", ErrTransient, err)
	}

	out := make([]*storage.Image, 0, len(images))
	for _, image := range images {
		if !canView(identity, image) {
			continue
		}
		if ownedOnly && image.OwnerID != identity.UserID {
			continue
		}
		out = append(out, image)
	}
	return out, nil
}

// Recommendations returns public images in the caller's interest categories.
func (s *ProfileService) Recommendations(ctx context.Context, identity Identity) ([]*storage.Image, error) {
	profile, err := s.GetProfile(ctx, identity)
	if err != nil {
		return nil, err
	}
	interests := profile.Interests
	if len(interests) == 0 {
		return []*storage.Image{}, nil
	}
	if len(interests) > maxRecommendationInterests {
		interests = interests[:maxRecommendationInterests]
	}

	images, err := s.images.ListPublicByCategories(ctx, interests)
	if err != nil {
		return nil, fmt.Errorf("%w: recommendations: %w", ErrTransient, err)
	}
	return images, nil
}

func normalizeInterests(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, interest := range in {
		interest = strings.TrimSpace(interest)
		if interest == "" || seen[interest] {
			continue
		}
		seen[interest] = true
		out = append(out, interest)
	}
	return out
}
