package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFrom_FileThenDefaultsThenEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("PAGE_SIZE", "")
	t.Setenv("DB_DRIVER", "")
	path := writeConfig(t, `{
		"app": {"JWTSecret": "from-file", "AdminUsernames": ["Root"]},
		"database": {"Driver": "postgres"},
		"feed": {"PageSize": 5}
	}`)

	c, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "from-file", c.JWTSecret)
	assert.Equal(t, 5, c.PageSize)
	assert.Equal(t, "postgres", c.DBDriver)
	assert.Equal(t, "5432", c.DBPort)
	assert.Equal(t, 20*time.Second, c.PageCacheTTL())
	assert.Equal(t, 72*time.Hour, c.TokenTTL())
	assert.Equal(t, "/auth/login", c.LoginURL)
	assert.True(t, c.IsAdmin("root"))
	assert.False(t, c.IsAdmin(""))

	t.Setenv("PAGE_SIZE", "3")
	t.Setenv("ADMIN_USERNAMES", "alice, bob")
	c, err = LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, 3, c.PageSize)
	assert.Equal(t, []string{"alice", "bob"}, c.AdminUsernames)
}

func TestLoadFrom_Errors(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	_, err := LoadFrom(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err, "secret is required")

	t.Setenv("JWT_SECRET", "s")
	t.Setenv("PAGE_CACHE_SECONDS", "soon")
	_, err = LoadFrom(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	_, err = LoadFrom(writeConfig(t, "{not json"))
	assert.Error(t, err)
}
