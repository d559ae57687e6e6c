package repository

import (
	"context"
	"fmt"

	"dating-backend/internal/models"
	"dating-backend/internal/query"
)

// GetPhoto retrieves a photo by ID, or nil when it does not exist
func (r *DatingRepository) GetPhoto(ctx context.Context, id string) (*models.Photo, error) {
	photo, err := r.store.Photos().
		Where(query.Eq(models.PhotoID, id)).
		First(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get photo: %w", err)
	}
	return photo, nil
}

// GetMainPhotoForUser retrieves the user's main photo, or nil when the user
// has none or does not exist
func (r *DatingRepository) GetMainPhotoForUser(ctx context.Context, userID string) (*models.Photo, error) {
	photo, err := r.store.Photos().
		Where(
			query.Eq(models.PhotoUserID, userID),
			query.Eq(models.PhotoIsMain, true),
		).
		First(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get main photo: %w", err)
	}
	return photo, nil
}
