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

var usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)

// CreateUser validates and inserts a user. The username must be unique.
func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	u.Username = strings.TrimSpace(u.Username)
	verr := &ValidationError{}
	switch {
	case u.Username == "":
		verr.add("username", "This field is required.")
	case utf8.RuneCountInString(u.Username) > 150:
		verr.add("username", "Ensure this value has at most 150 characters.")
	case !usernamePattern.MatchString(u.Username):
		verr.add("username", "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters.")
	}
	if err := verr.orNil(); err != nil {
		return err
	}

	db := s.db.WithContext(ctx)
	var existing int64
	if err := db.Model(&models.User{}).Where("username = ?", u.Username).Count(&existing).Error; err != nil {
		return err
	}
	if existing > 0 {
		verr.add("username", "A user with that username already exists.")
		return verr
	}
	if err := db.Create(u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			verr.add("username", "A user with that username already exists.")
			return verr
		}
		return err
	}
	return nil
}

// UserByID loads a user by primary key.
func (s *Store) UserByID(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, notFound("user", id, err)
	}
	return &u, nil
}

// UserByUsername loads a user by its unique username.
func (s *Store) UserByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&u).Error; err != nil {
		return nil, notFound("user", username, err)
	}
	return &u, nil
}

// CountUsers returns the number of registered users.
func (s *Store) CountUsers(ctx context.Context) (int64, error) {
	return s.count(ctx, &models.User{})
}
