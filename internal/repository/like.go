package repository

import (
	"context"
	"fmt"

	"dating-backend/internal/models"
	"dating-backend/internal/query"
)

// GetLike retrieves the edge from likerID to likeeID, or nil when there is none
func (r *DatingRepository) GetLike(ctx context.Context, likerID, likeeID string) (*models.Like, error) {
	like, err := r.store.Likes().
		Where(
			query.Eq(models.LikeLikerID, likerID),
			query.Eq(models.LikeLikeeID, likeeID),
		).
		First(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get like: %w", err)
	}
	return like, nil
}
