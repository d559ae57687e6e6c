package services

import (
	"context"
	"errors"
	"fmt"

	"dating-backend/internal/models"
	"dating-backend/internal/pagination"
	"dating-backend/internal/repository"
)

// ErrRequesterNotFound is returned when the authenticated user no longer exists
var ErrRequesterNotFound = errors.New("requester not found")

// UserService handles user search and lookups
type UserService struct {
	repo   *repository.DatingRepository
	photos *PhotoService
}

// NewUserService creates a new user service
func NewUserService(repo *repository.DatingRepository, photos *PhotoService) *UserService {
	return &UserService{
		repo:   repo,
		photos: photos,
	}
}

// ListUsers searches users on behalf of requesterID. When no gender is
// requested the requester's opposite gender is used.
func (s *UserService) ListUsers(ctx context.Context, requesterID string, params models.UserParams) (*pagination.Page[models.User], error) {
	params.UserID = requesterID
	params.Normalize()

	if params.Gender == "" {
		requester, err := s.repo.GetUser(ctx, requesterID)
		if err != nil {
			return nil, err
		}
		if requester == nil {
			return nil, ErrRequesterNotFound
		}
		params.Gender = oppositeGender(requester.Gender)
	}

	page, err := s.repo.GetUsers(ctx, params)
	if err != nil {
		return nil, err
	}

	for i := range page.Items {
		if err := s.photos.ResolveURLs(ctx, page.Items[i].Photos); err != nil {
			return nil, fmt.Errorf("failed to resolve photo URLs: %w", err)
		}
	}
	return page, nil
}

// GetUser retrieves a user with photos, or nil when it does not exist
func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.repo.GetUser(ctx, id)
	if err != nil || user == nil {
		return nil, err
	}
	if err := s.photos.ResolveURLs(ctx, user.Photos); err != nil {
		return nil, fmt.Errorf("failed to resolve photo URLs: %w", err)
	}
	return user, nil
}

// GetLike retrieves the like from likerID to likeeID, or nil when there is none
func (s *UserService) GetLike(ctx context.Context, likerID, likeeID string) (*models.Like, error) {
	return s.repo.GetLike(ctx, likerID, likeeID)
}

func oppositeGender(gender string) string {
	if gender == "male" {
		return "female"
	}
	return "male"
}
