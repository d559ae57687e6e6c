package repository

import (
	"context"
	"fmt"
	"time"

	"dating-backend/internal/models"
	"dating-backend/internal/pagination"
	"dating-backend/internal/query"

	"github.com/rs/zerolog/log"
)

// GetUser retrieves a user with photos by ID. It returns nil when the user does not exist.
func (r *DatingRepository) GetUser(ctx context.Context, id string) (*models.User, error) {
	user, err := r.store.Users().
		Include(models.IncludePhotos).
		Where(query.Eq(models.UserID, id)).
		First(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// GetUsers retrieves one page of users matching params
func (r *DatingRepository) GetUsers(ctx context.Context, params models.UserParams) (*pagination.Page[models.User], error) {
	page, err := pagination.Create[models.User](ctx, r.UserQuery(params), params.PageNumber, params.PageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to get users: %w", err)
	}

	log.Debug().
		Str("user_id", params.UserID).
		Int("page", page.CurrentPage).
		Int("total", page.TotalCount).
		Msg("Users listed")

	return page, nil
}

// UserQuery builds the search described by params without running it.
//
// Likers and Likees each restrict to the requester's like edges in one
// direction; both set together yields the intersection.
func (r *DatingRepository) UserQuery(params models.UserParams) *query.Query[models.User] {
	users := r.store.Users().
		OrderByDesc(models.UserLastActive).
		Include(models.IncludePhotos)

	users = users.Where(
		query.Ne(models.UserID, params.UserID),
		query.Eq(models.UserGender, params.Gender),
	)

	if params.Likers {
		users = users.Where(query.InQuery(models.UserID, models.LikesTable, models.LikeLikerID,
			query.Where(query.Eq(models.LikeLikeeID, params.UserID))))
	}

	if params.Likees {
		users = users.Where(query.InQuery(models.UserID, models.LikesTable, models.LikeLikeeID,
			query.Where(query.Eq(models.LikeLikerID, params.UserID))))
	}

	if params.HasAgeFilter() {
		minDoB, maxDoB := dateOfBirthRange(r.today(), params.MinAge, params.MaxAge)
		users = users.Where(
			query.Gte(models.UserDateOfBirth, minDoB),
			query.Lte(models.UserDateOfBirth, maxDoB),
		)
	}

	if params.OrderBy != "" {
		switch params.OrderBy {
		case models.OrderByCreated:
			users = users.OrderByDesc(models.UserCreated)
		default:
			users = users.OrderByDesc(models.UserLastActive)
		}
	}

	return users
}

// today is the clock's calendar date at UTC midnight, the form dates of birth are stored in
func (r *DatingRepository) today() time.Time {
	now := r.now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// dateOfBirthRange converts inclusive age bounds to birth dates. Someone is
// counted as still minAge until the day before their next birthday.
func dateOfBirthRange(today time.Time, minAge, maxAge int) (time.Time, time.Time) {
	minDoB := today.AddDate(-maxAge-1, 0, 0)
	maxDoB := today.AddDate(-minAge-1, 0, 0)
	return minDoB, maxDoB
}
