package store

import (
	"context"
	"fmt"
	"html"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/cppla/yatube/models"
	"github.com/cppla/yatube/paginator"
)

// MinPostLength is the minimum number of characters in a post body.
const MinPostLength = 10

// PostFilter narrows a post listing. Zero values do not filter.
type PostFilter struct {
	GroupID  uint
	AuthorID uint
	// AuthorIn restricts to posts by any of the listed authors when non-empty.
	AuthorIn []uint
}

// PostUpdate lists the editable fields of a post.
// GroupID nil clears the group; Image nil keeps the current image.
type PostUpdate struct {
	Text    string
	GroupID *uint
	Image   *string
}

// validatePost checks text and group. Text may carry HTML entities from
// sanitizing; its length is measured on the unescaped characters.
func (s *Store) validatePost(tx *gorm.DB, text string, groupID *uint) (*ValidationError, error) {
	verr := &ValidationError{}
	switch n := utf8.RuneCountInString(html.UnescapeString(text)); {
	case n == 0:
		verr.add("text", "This field is required.")
	case n < MinPostLength:
		verr.add("text", "Text is too short, at least 10 characters are required.")
	}
	if groupID != nil {
		var n int64
		if err := tx.Model(&models.Group{}).Where("id = ?", *groupID).Count(&n).Error; err != nil {
			return nil, fmt.Errorf("check group %d: %w", *groupID, err)
		}
		if n == 0 {
			verr.add("group", "Select a valid choice. That choice is not one of the available choices.")
		}
	}
	return verr, nil
}

// CreatePost validates and inserts a post owned by p.AuthorID.
func (s *Store) CreatePost(ctx context.Context, p *models.Post) error {
	db := s.db.WithContext(ctx)
	p.Text = strings.TrimSpace(p.Text)
	verr, err := s.validatePost(db, p.Text, p.GroupID)
	if err != nil {
		return err
	}
	if p.AuthorID == 0 {
		verr.add("author", "This field is required.")
	}
	if err := verr.orNil(); err != nil {
		return err
	}
	return db.Omit(clause.Associations).Create(p).Error
}

// PostByID loads a post with its author, group and comments (newest first).
func (s *Store) PostByID(ctx context.Context, id uint) (*models.Post, error) {
	var p models.Post
	err := s.db.WithContext(ctx).
		Preload("Author").
		Preload("Group").
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC").Order("id DESC")
		}).
		Preload("Comments.Author").
		First(&p, id).Error
	if err != nil {
		return nil, notFound("post", id, err)
	}
	return &p, nil
}

// UpdatePost changes only the fields of upd. Author and creation time never change.
func (s *Store) UpdatePost(ctx context.Context, id uint, upd PostUpdate) (*models.Post, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current models.Post
		if err := tx.Select("id").First(&current, id).Error; err != nil {
			return notFound("post", id, err)
		}
		text := strings.TrimSpace(upd.Text)
		verr, err := s.validatePost(tx, text, upd.GroupID)
		if err != nil {
			return err
		}
		if err := verr.orNil(); err != nil {
			return err
		}
		changes := map[string]interface{}{"text": text, "group_id": nil}
		if upd.GroupID != nil {
			changes["group_id"] = *upd.GroupID
		}
		if upd.Image != nil {
			changes["image"] = *upd.Image
		}
		return tx.Model(&models.Post{}).Where("id = ?", id).Updates(changes).Error
	})
	if err != nil {
		return nil, err
	}
	return s.PostByID(ctx, id)
}

// DeletePost removes a post and all of its comments.
func (s *Store) DeletePost(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p models.Post
		if err := tx.Select("id").First(&p, id).Error; err != nil {
			return notFound("post", id, err)
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Post{}, id).Error
	})
}

// CountPosts returns the number of posts.
func (s *Store) CountPosts(ctx context.Context) (int64, error) {
	return s.count(ctx, &models.Post{})
}

// Posts returns the filtered posts, newest first. The sequence queries the
// database on every Count and Slice, so it reflects the current data.
func (s *Store) Posts(f PostFilter) paginator.Sequence[models.Post] {
	return postSequence{db: s.db, filter: f}
}

type postSequence struct {
	db     *gorm.DB
	filter PostFilter
}

func (q postSequence) scoped(ctx context.Context) *gorm.DB {
	tx := q.db.WithContext(ctx).Model(&models.Post{})
	if q.filter.GroupID != 0 {
		tx = tx.Where("group_id = ?", q.filter.GroupID)
	}
	if q.filter.AuthorID != 0 {
		tx = tx.Where("author_id = ?", q.filter.AuthorID)
	}
	if len(q.filter.AuthorIn) > 0 {
		tx = tx.Where("author_id IN ?", q.filter.AuthorIn)
	}
	return tx
}

func (q postSequence) Count(ctx context.Context) (int64, error) {
	var n int64
	err := q.scoped(ctx).Count(&n).Error
	return n, err
}

func (q postSequence) Slice(ctx context.Context, offset, limit int) ([]models.Post, error) {
	var posts []models.Post
	err := q.scoped(ctx).
		Preload("Author").
		Preload("Group").
		Order("created_at DESC").
		Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&posts).Error
	return posts, err
}
