package storage

import (
	"context"
	"time"
)

// Reads return (nil, nil) when the row does not exist.

type ImageStorage interface {
	Create(ctx context.Context, image *Image) error
	GetByID(ctx context.Context, id string) (*Image, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*Image, error)
	ListByIDs(ctx context.Context, ids []string) ([]*Image, error)
	ListPublicByCategories(ctx context.Context, categories []string) ([]*Image, error)
	SetVisibility(ctx context.Context, id string, public bool) error
	Delete(ctx context.Context, id string) error
}

type ProfileStorage interface {
	Get(ctx context.Context, userID string) (*Profile, error)
	Upsert(ctx context.Context, profile *Profile) error
	ListFavorites(ctx context.Context, userID string) ([]string, error)
	AddFavorite(ctx context.Context, userID, imageID string) error
	RemoveFavorite(ctx context.Context, userID, imageID string) error
	IsFavorite(ctx context.Context, userID, imageID string) (bool, error)
}

type ShareStorage interface {
	// Create writes the record, replacing any existing record with the same token.
	Create(ctx context.Context, share *ShareRecord) error
	GetByToken(ctx context.Context, token string) (*ShareRecord, error)
	ListByImage(ctx context.Context, imageID string) ([]*ShareRecord, error)
	Delete(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}
