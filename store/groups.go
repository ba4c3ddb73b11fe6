package store

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/cppla/yatube/models"
)

var slugPattern = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

func validateGroup(g *models.Group) *ValidationError {
	verr := &ValidationError{}
	switch {
	case g.Title == "":
		verr.add("title", "This field is required.")
	case utf8.RuneCountInString(g.Title) > 200:
		verr.add("title", "Ensure this value has at most 200 characters.")
	}
	switch {
	case g.Slug == "":
		verr.add("slug", "This field is required.")
	case len(g.Slug) > 50:
		verr.add("slug", "Ensure this value has at most 50 characters.")
	case !slugPattern.MatchString(g.Slug):
		verr.add("slug", "Enter a valid slug consisting of letters, numbers, underscores or hyphens.")
	}
	if g.Description == "" {
		verr.add("description", "This field is required.")
	}
	return verr
}

// CreateGroup validates and inserts a group. The slug must be unique.
func (s *Store) CreateGroup(ctx context.Context, g *models.Group) error {
	g.Title = strings.TrimSpace(g.Title)
	g.Slug = strings.TrimSpace(g.Slug)
	g.Description = strings.TrimSpace(g.Description)
	verr := validateGroup(g)
	if err := verr.orNil(); err != nil {
		return err
	}

	db := s.db.WithContext(ctx)
	var existing int64
	if err := db.Model(&models.Group{}).Where("slug = ?", g.Slug).Count(&existing).Error; err != nil {
		return err
	}
	if existing > 0 {
		verr.add("slug", "Group with this slug already exists.")
		return verr
	}
	if err := db.Create(g).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			verr.add("slug", "Group with this slug already exists.")
			return verr
		}
		return err
	}
	return nil
}

// GroupBySlug loads a group by its unique slug.
func (s *Store) GroupBySlug(ctx context.Context, slug string) (*models.Group, error) {
	var g models.Group
	if err := s.db.WithContext(ctx).Where("slug = ?", slug).First(&g).Error; err != nil {
		return nil, notFound("group", slug, err)
	}
	return &g, nil
}

// ListGroups returns all groups ordered by title.
func (s *Store) ListGroups(ctx context.Context) ([]models.Group, error) {
	groups := []models.Group{}
	err := s.db.WithContext(ctx).Order("title ASC").Order("id ASC").Find(&groups).Error
	return groups, err
}

// DeleteGroup removes a group. Posts that referenced it are kept with no group.
func (s *Store) DeleteGroup(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var g models.Group
		if err := tx.First(&g, id).Error; err != nil {
			return notFound("group", id, err)
		}
		if err := tx.Model(&models.Post{}).Where("group_id = ?", id).Update("group_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&g).Error
	})
}

// CountGroups returns the number of groups.
func (s *Store) CountGroups(ctx context.Context) (int64, error) {
	return s.count(ctx, &models.Group{})
}
