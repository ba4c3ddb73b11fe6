// Package store persists users, groups, posts, comments and follows with gorm
// and enforces their integrity rules: unique group slugs and usernames,
// minimum post length, set-null of a deleted group on its posts, and cascade
// of a deleted post to its comments.
package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Store is the persistence layer shared by all request handlers.
type Store struct {
	db *gorm.DB
}

// New wraps an opened and migrated database.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying connection for health checks.
func (s *Store) DB() *gorm.DB {
	return s.db
}

func notFound(kind string, key interface{}, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s %v: %w", kind, key, ErrNotFound)
	}
	return fmt.Errorf("load %s %v: %w", kind, key, err)
}

func (s *Store) count(ctx context.Context, model interface{}) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(model).Count(&n).Error
	return n, err
}
