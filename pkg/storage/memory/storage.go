// Package memory holds map-backed storage implementations for tests and
// local runs without Postgres.
package memory

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"imagehub/pkg/storage"
)

type ImageStorage struct {
	mu     sync.RWMutex
	images map[string]storage.Image
}

func NewImageStorage() *ImageStorage {
	return &ImageStorage{images: make(map[string]storage.Image)}
}

func (s *ImageStorage) Create(_ context.Context, image *storage.Image) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.images[image.ID] = *image
	return nil
}

func (s *ImageStorage) GetByID(_ context.Context, id string) (*storage.Image, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	image, ok := s.images[id]
	if !ok {
		return nil, nil
	}
	return &image, nil
}

func (s *ImageStorage) ListByOwner(_ context.Context, ownerID string) ([]*storage.Image, error) {
	return s.filter(func(i storage.Image) bool { return i.OwnerID == ownerID }), nil
}

func (s *ImageStorage) ListByIDs(_ context.Context, ids []string) ([]*storage.Image, error) {
	return s.filter(func(i storage.Image) bool { return slices.Contains(ids, i.ID) }), nil
}

func (s *ImageStorage) ListPublicByCategories(_ context.Context, categories []string) ([]*storage.Image, error) {
	return s.filter(func(i storage.Image) bool {
		return i.IsPublic && slices.Contains(categories, i.Category)
	}), nil
}

func (s *ImageStorage) SetVisibility(_ context.Context, id string, public bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if image, ok := s.images[id]; ok {
		image.IsPublic = public
		s.images[id] = image
	}
	return nil
}

func (s *ImageStorage) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.images, id)
	return nil
}

// filter returns matches newest first, like the Postgres queries.
func (s *ImageStorage) filter(keep func(storage.Image) bool) []*storage.Image {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []*storage.Image{}
	for _, image := range s.images {
		if keep(image) {
			out = append(out, &image)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

type ProfileStorage struct {
	mu        sync.RWMutex
	profiles  map[string]storage.Profile
	favorites map[string][]string
}

func NewProfileStorage() *ProfileStorage {
	return &ProfileStorage{
		profiles:  make(map[string]storage.Profile),
		favorites: make(map[string][]string),
	}
}

func (s *ProfileStorage) Get(_ context.Context, userID string) (*storage.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	profile, ok := s.profiles[userID]
	if !ok {
		return nil, nil
	}
	profile.Interests = slices.Clone(profile.Interests)
	return &profile, nil
}

func (s *ProfileStorage) Upsert(_ context.Context, profile *storage.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *profile
	stored.Interests = slices.Clone(profile.Interests)
	if existing, ok := s.profiles[profile.UserID]; ok {
		stored.CreatedAt = existing.CreatedAt
	}
	s.profiles[profile.UserID] = stored
	return nil
}

func (s *ProfileStorage) ListFavorites(_ context.Context, userID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.favorites[userID]), nil
}

func (s *ProfileStorage) AddFavorite(_ context.Context, userID, imageID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !slices.Contains(s.favorites[userID], imageID) {
		s.favorites[userID] = append(s.favorites[userID], imageID)
	}
	return nil
}

func (s *ProfileStorage) RemoveFavorite(_ context.Context, userID, imageID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.favorites[userID] = slices.DeleteFunc(s.favorites[userID], func(id string) bool { return id == imageID })
	return nil
}

func (s *ProfileStorage) IsFavorite(_ context.Context, userID, imageID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Contains(s.favorites[userID], imageID), nil
}

type ShareStorage struct {
	mu     sync.RWMutex
	shares map[string]storage.ShareRecord
}

func NewShareStorage() *ShareStorage {
	return &ShareStorage{shares: make(map[string]storage.ShareRecord)}
}

func (s *ShareStorage) Create(_ context.Context, share *storage.ShareRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shares[share.Token] = *share
	return nil
}

func (s *ShareStorage) GetByToken(_ context.Context, token string) (*storage.ShareRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	share, ok := s.shares[token]
	if !ok {
		return nil, nil
	}
	return &share, nil
}

func (s *ShareStorage) ListByImage(_ context.Context, imageID string) ([]*storage.ShareRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []*storage.ShareRecord{}
	for _, share := range s.shares {
		if share.ImageID == imageID {
			out = append(out, &share)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *ShareStorage) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.shares, token)
	return nil
}

func (s *ShareStorage) DeleteExpired(_ context.Context, before time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for token, share := range s.shares {
		if !share.ExpiresAt.After(before) {
			delete(s.shares, token)
			n++
		}
	}
	return n, nil
}
