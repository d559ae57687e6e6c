// Package storage defines the relational store the repository runs against.
// Implementations live in the postgres and memory subpackages.
package storage

import (
	"context"

	"dating-backend/internal/models"
	"dating-backend/internal/query"
)

// Store exposes lazy queries over every table plus units of work for writes
type Store interface {
	Users() *query.Query[models.User]
	Photos() *query.Query[models.Photo]
	Likes() *query.Query[models.Like]
	Begin(ctx context.Context) (UnitOfWork, error)
	Ping(ctx context.Context) error
}

// UnitOfWork collects staged changes and persists them together on Commit.
// A unit of work belongs to one caller and must not be shared.
type UnitOfWork interface {
	// Stage marks e for insertion, or update when its key already exists.
	Stage(e models.Entity)
	// Unstage marks e for deletion.
	Unstage(e models.Entity)
	// Commit persists every staged change and reports whether any row was affected.
	Commit(ctx context.Context) (bool, error)
	// Rollback discards staged changes.
	Rollback(ctx context.Context) error
}

// Change is a staged write
type Change struct {
	Entity models.Entity
	Delete bool
}

// Changes is the staging list shared by the UnitOfWork implementations
type Changes struct {
	list []Change
}

// Stage appends an upsert
func (c *Changes) Stage(e models.Entity) {
	c.list = append(c.list, Change{Entity: e})
}

// Unstage appends a delete
func (c *Changes) Unstage(e models.Entity) {
	c.list = append(c.list, Change{Entity: e, Delete: true})
}

// Drain returns the staged changes in order and resets the list
func (c *Changes) Drain() []Change {
	list := c.list
	c.list = nil
	return list
}

// Len is the number of staged changes
func (c *Changes) Len() int {
	return len(c.list)
}
