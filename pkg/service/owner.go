package service

import (
	"context"
	"fmt"

	"imagehub/pkg/storage"
)

// loadOwnedImage is the resource owner gate: the image must exist and belong
// to identity.
func loadOwnedImage(ctx context.Context, images storage.ImageStorage, identity Identity, imageID string) (*storage.Image, error) {
	if identity.IsZero() {
		return nil, ErrUnauthenticated
	}
	image, err := images.GetByID(ctx, imageID)
	if err != nil {
		return nil, fmt.Errorf("%w: load image: %w", ErrTransient, err)
	}
	if image == nil {
		return nil, ErrImageNotFound
	}
	if image.OwnerID != identity.UserID {
		return nil, ErrNotOwner
	}
	return image, nil
}

// canView reports whether identity may see image outside of a share link.
func canView(identity Identity, image *storage.Image) bool {
	return image.IsPublic || (!identity.IsZero() && image.OwnerID == identity.UserID)
}
