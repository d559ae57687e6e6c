package repository

import (
	"context"
	"fmt"
	"time"

	"dating-backend/internal/models"
	"dating-backend/internal/storage"
)

// DatingRepository handles read queries over users, photos and likes, and
// hands out units of work for writes
type DatingRepository struct {
	store storage.Store
	now   func() time.Time
}

// Option configures a DatingRepository
type Option func(*DatingRepository)

// WithClock replaces time.Now as the source of "today" for age filters
func WithClock(now func() time.Time) Option {
	return func(r *DatingRepository) {
		r.now = now
	}
}

// NewDatingRepository creates a new dating repository
func NewDatingRepository(store storage.Store, opts ...Option) *DatingRepository {
	r := &DatingRepository{
		store: store,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Ping checks the underlying store
func (r *DatingRepository) Ping(ctx context.Context) error {
	return r.store.Ping(ctx)
}

// WithUnitOfWork runs fn with a fresh unit of work. The staged changes are
// committed when fn returns nil and discarded when it fails or panics.
// It reports whether the commit affected any row.
func (r *DatingRepository) WithUnitOfWork(ctx context.Context, fn func(uow storage.UnitOfWork) error) (bool, error) {
	uow, err := r.store.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to begin unit of work: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = uow.Rollback(ctx)
			panic(p)
		}
	}()

	if err := fn(uow); err != nil {
		if rbErr := uow.Rollback(ctx); rbErr != nil {
			return false, fmt.Errorf("failed to rollback unit of work: %w (original error: %v)", rbErr, err)
		}
		return false, err
	}

	return uow.Commit(ctx)
}

// Add stages entities for insertion
func Add[E models.Entity](uow storage.UnitOfWork, entities ...E) {
	for _, e := range entities {
		uow.Stage(e)
	}
}

// Delete stages entities for removal
func Delete[E models.Entity](uow storage.UnitOfWork, entities ...E) {
	for _, e := range entities {
		uow.Unstage(e)
	}
}
