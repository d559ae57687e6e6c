// Package memory is an in-process Store. It evaluates the same query plans
// as the postgres store and backs local runs and tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"dating-backend/internal/models"
	"dating-backend/internal/query"
	"dating-backend/internal/storage"
)

// Store keeps users, photos and likes in maps guarded by one RWMutex
type Store struct {
	mu     sync.RWMutex
	users  map[string]models.User
	photos map[string]models.Photo
	likes  map[models.Like]struct{}
}

var _ storage.Store = (*Store)(nil)

// New creates an empty store
func New() *Store {
	return &Store{
		users:  make(map[string]models.User),
		photos: make(map[string]models.Photo),
		likes:  make(map[models.Like]struct{}),
	}
}

// Users returns a query over all users
func (s *Store) Users() *query.Query[models.User] {
	return query.New[models.User](&table[models.User]{
		s:      s,
		rows:   s.userRows,
		field:  userField,
		key:    func(u *models.User) string { return u.ID },
		attach: s.attachUser,
	})
}

// Photos returns a query over all photos
func (s *Store) Photos() *query.Query[models.Photo] {
	return query.New[models.Photo](&table[models.Photo]{
		s:     s,
		rows:  s.photoRows,
		field: photoField,
		key:   func(p *models.Photo) string { return p.ID },
	})
}

// Likes returns a query over all like edges
func (s *Store) Likes() *query.Query[models.Like] {
	return query.New[models.Like](&table[models.Like]{
		s:     s,
		rows:  s.likeRows,
		field: likeField,
		key:   func(l *models.Like) string { return l.LikerID + "/" + l.LikeeID },
	})
}

// Begin starts a unit of work
func (s *Store) Begin(ctx context.Context) (storage.UnitOfWork, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &unitOfWork{s: s}, nil
}

// Ping always succeeds
func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (s *Store) userRows() []models.User {
	rows := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		rows = append(rows, u)
	}
	return rows
}

func (s *Store) photoRows() []models.Photo {
	rows := make([]models.Photo, 0, len(s.photos))
	for _, p := range s.photos {
		rows = append(rows, p)
	}
	return rows
}

func (s *Store) likeRows() []models.Like {
	rows := make([]models.Like, 0, len(s.likes))
	for l := range s.likes {
		rows = append(rows, l)
	}
	return rows
}

// attachUser fills the requested relations; the caller holds the read lock.
func (s *Store) attachUser(u *models.User, plan query.Plan) {
	if plan.HasInclude(models.IncludePhotos) {
		u.Photos = []models.Photo{}
		for _, p := range s.photos {
			if p.UserID == u.ID {
				u.Photos = append(u.Photos, p)
			}
		}
		sort.Slice(u.Photos, func(i, j int) bool {
			a, b := u.Photos[i], u.Photos[j]
			if !a.DateAdded.Equal(b.DateAdded) {
				return a.DateAdded.Before(b.DateAdded)
			}
			return a.ID < b.ID
		})
	}
	if plan.HasInclude(models.IncludeLikers) {
		u.Likers = []models.Like{}
		for l := range s.likes {
			if l.LikeeID == u.ID {
				u.Likers = append(u.Likers, l)
			}
		}
	}
	if plan.HasInclude(models.IncludeLikees) {
		u.Likees = []models.Like{}
		for l := range s.likes {
			if l.LikerID == u.ID {
				u.Likees = append(u.Likees, l)
			}
		}
	}
}

// project evaluates a subquery to the values of its selected column.
// The caller holds the read lock.
func (s *Store) project(sub *query.Subquery) ([]any, error) {
	switch sub.Table {
	case models.UsersTable:
		return (&table[models.User]{s: s, rows: s.userRows, field: userField}).project(sub.Plan, sub.Select)
	case models.PhotosTable:
		return (&table[models.Photo]{s: s, rows: s.photoRows, field: photoField}).project(sub.Plan, sub.Select)
	case models.LikesTable:
		return (&table[models.Like]{s: s, rows: s.likeRows, field: likeField}).project(sub.Plan, sub.Select)
	default:
		return nil, fmt.Errorf("unknown table %q", sub.Table)
	}
}

func userField(u *models.User, name string) (any, bool) {
	switch name {
	case models.UserID:
		return u.ID, true
	case models.UserUsername:
		return u.Username, true
	case models.UserGender:
		return u.Gender, true
	case models.UserDateOfBirth:
		return u.DateOfBirth, true
	case models.UserKnownAs:
		return u.KnownAs, true
	case models.UserCreated:
		return u.Created, true
	case models.UserLastActive:
		return u.LastActive, true
	case models.UserIntroduction:
		return u.Introduction, true
	case models.UserLookingFor:
		return u.LookingFor, true
	case models.UserInterests:
		return u.Interests, true
	case models.UserCity:
		return u.City, true
	case models.UserCountry:
		return u.Country, true
	}
	return nil, false
}

func photoField(p *models.Photo, name string) (any, bool) {
	switch name {
	case models.PhotoID:
		return p.ID, true
	case models.PhotoURL:
		return p.URL, true
	case models.PhotoDescription:
		return p.Description, true
	case models.PhotoDateAdded:
		return p.DateAdded, true
	case models.PhotoIsMain:
		return p.IsMain, true
	case models.PhotoPublicID:
		return p.PublicID, true
	case models.PhotoUserID:
		return p.UserID, true
	}
	return nil, false
}

func likeField(l *models.Like, name string) (any, bool) {
	switch name {
	case models.LikeLikerID:
		return l.LikerID, true
	case models.LikeLikeeID:
		return l.LikeeID, true
	}
	return nil, false
}
