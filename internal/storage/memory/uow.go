package memory

import (
	"context"
	"fmt"

	"dating-backend/internal/models"
	"dating-backend/internal/storage"
)

type unitOfWork struct {
	storage.Changes
	s *Store
}

// Commit applies the staged changes under the write lock. Every change is
// checked before any is applied, so a rejected change leaves the store untouched.
func (u *unitOfWork) Commit(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	changes := u.Drain()
	if len(changes) == 0 {
		return false, nil
	}

	for _, c := range changes {
		switch c.Entity.(type) {
		case *models.User, *models.Photo, *models.Like:
		default:
			return false, fmt.Errorf("failed to commit: unsupported entity %T", c.Entity)
		}
	}

	u.s.mu.Lock()
	defer u.s.mu.Unlock()

	affected := 0
	for _, c := range changes {
		if c.Delete {
			affected += u.s.remove(c.Entity)
		} else {
			affected += u.s.upsert(c.Entity)
		}
	}
	return affected > 0, nil
}

func (u *unitOfWork) Rollback(ctx context.Context) error {
	u.Drain()
	return nil
}

func (s *Store) upsert(e models.Entity) int {
	switch v := e.(type) {
	case *models.User:
		row := *v
		row.Photos, row.Likers, row.Likees = nil, nil, nil
		s.users[row.ID] = row
	case *models.Photo:
		s.photos[v.ID] = *v
	case *models.Like:
		if _, exists := s.likes[*v]; exists {
			return 0
		}
		s.likes[*v] = struct{}{}
	}
	return 1
}

func (s *Store) remove(e models.Entity) int {
	switch v := e.(type) {
	case *models.User:
		if _, exists := s.users[v.ID]; !exists {
			return 0
		}
		delete(s.users, v.ID)
		for id, p := range s.photos {
			if p.UserID == v.ID {
				delete(s.photos, id)
			}
		}
		for l := range s.likes {
			if l.LikerID == v.ID || l.LikeeID == v.ID {
				delete(s.likes, l)
			}
		}
	case *models.Photo:
		if _, exists := s.photos[v.ID]; !exists {
			return 0
		}
		delete(s.photos, v.ID)
	case *models.Like:
		if _, exists := s.likes[*v]; !exists {
			return 0
		}
		delete(s.likes, *v)
	}
	return 1
}
