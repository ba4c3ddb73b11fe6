package store

import (
	"context"
	"strings"

	"gorm.io/gorm/clause"

	"github.com/cppla/yatube/models"
)

// CreateComment attaches a comment to an existing post. A missing post
// wraps ErrNotFound before the comment itself is validated.
func (s *Store) CreateComment(ctx context.Context, c *models.Comment) error {
	db := s.db.WithContext(ctx)
	var p models.Post
	if err := db.Select("id").First(&p, c.PostID).Error; err != nil {
		return notFound("post", c.PostID, err)
	}

	c.Text = strings.TrimSpace(c.Text)
	verr := &ValidationError{}
	if c.Text == "" {
		verr.add("text", "This field is required.")
	}
	if c.AuthorID == 0 {
		verr.add("author", "This field is required.")
	}
	if err := verr.orNil(); err != nil {
		return err
	}
	return db.Omit(clause.Associations).Create(c).Error
}

// CommentsFor lists the comments of a post, newest first.
func (s *Store) CommentsFor(ctx context.Context, postID uint) ([]models.Comment, error) {
	var comments []models.Comment
	err := s.db.WithContext(ctx).
		Preload("Author").
		Where("post_id = ?", postID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&comments).Error
	return comments, err
}

// CountComments returns the number of comments.
func (s *Store) CountComments(ctx context.Context) (int64, error) {
	return s.count(ctx, &models.Comment{})
}
