package store

import (
	"context"

	"gorm.io/gorm/clause"

	"github.com/cppla/yatube/models"
)

// CreateFollow inserts the edge user -> author; an existing edge is left untouched.
func (s *Store) CreateFollow(ctx context.Context, userID, authorID uint) error {
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Omit(clause.Associations).
		Create(&models.Follow{UserID: userID, AuthorID: authorID}).Error
}

// DeleteFollow removes the edge user -> author if it exists.
func (s *Store) DeleteFollow(ctx context.Context, userID, authorID uint) error {
	return s.db.WithContext(ctx).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Delete(&models.Follow{}).Error
}

// FollowExists reports whether user follows author.
func (s *Store) FollowExists(ctx context.Context, userID, authorID uint) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Follow{}).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Count(&n).Error
	return n > 0, err
}

// FollowedAuthorIDs lists the authors user follows.
func (s *Store) FollowedAuthorIDs(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	err := s.db.WithContext(ctx).Model(&models.Follow{}).
		Where("user_id = ?", userID).
		Order("author_id ASC").
		Pluck("author_id", &ids).Error
	return ids, err
}

// CountFollows returns the number of follow edges.
func (s *Store) CountFollows(ctx context.Context) (int64, error) {
	return s.count(ctx, &models.Follow{})
}
