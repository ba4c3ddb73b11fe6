// Package storetest provides throwaway databases for tests.
package storetest

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/cppla/yatube/config"
	"github.com/cppla/yatube/models"
)

// NewDB opens a migrated sqlite database inside t.TempDir().
// The connection is closed when the test finishes.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
		TranslateError:                           true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, config.Migrate(db))
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

// CreateUser inserts a user directly, bypassing validation.
func CreateUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	u := &models.User{Username: username}
	require.NoError(t, db.WithContext(context.Background()).Create(u).Error)
	return u
}

// CreateGroup inserts a group directly.
func CreateGroup(t *testing.T, db *gorm.DB, slug string) *models.Group {
	t.Helper()
	g := &models.Group{Title: "Group " + slug, Slug: slug, Description: "About " + slug}
	require.NoError(t, db.Create(g).Error)
	return g
}

// CreatePost inserts a post with an explicit creation time.
func CreatePost(t *testing.T, db *gorm.DB, author *models.User, group *models.Group, createdAt time.Time, text string) *models.Post {
	t.Helper()
	p := &models.Post{Text: text, AuthorID: author.ID, CreatedAt: createdAt}
	if group != nil {
		p.GroupID = &group.ID
	}
	require.NoError(t, db.Omit("Author", "Group", "Comments").Create(p).Error)
	return p
}

// PostText returns a valid post body distinguished by n.
func PostText(n int) string {
	return fmt.Sprintf("Test post number %d", n)
}
