package utils

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestTokenManager_RoundTrip(t *testing.T) {
	m := NewTokenManager("secret", time.Hour)
	tok, exp, err := m.Generate(7, "leo")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	claims, err := m.Parse(tok)
	require.NoError(t, err)
	assert.EqualValues(t, 7, claims.UserID)
	assert.Equal(t, "leo", claims.Username)

	_, err = NewTokenManager("other", time.Hour).Parse(tok)
	assert.Error(t, err)
}

func TestTokenManager_Expired(t *testing.T) {
	m := NewTokenManager("secret", time.Minute)
	m.now = func() time.Time { return time.Now().Add(-time.Hour) }
	tok, _, err := m.Generate(1, "leo")
	require.NoError(t, err)
	_, err = m.Parse(tok)
	assert.Error(t, err)
}

func TestPassword(t *testing.T) {
	_, err := HashPassword("short")
	assert.ErrorIs(t, err, ErrWeakPassword)

	hash, err := HashPassword("long enough")
	require.NoError(t, err)
	assert.True(t, CheckPassword(hash, "long enough"))
	assert.False(t, CheckPassword(hash, "wrong guess"))
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "hello", Sanitize("  <script>alert(1)</script>hello "))
	assert.Equal(t, "<b>bold</b> text", Sanitize("<b>bold</b> text"))
}

func TestTokenBlacklist_Memory(t *testing.T) {
	ctx := context.Background()
	b := NewTokenBlacklist(nil)
	now := time.Now()
	b.now = func() time.Time { return now }

	require.NoError(t, b.Revoke(ctx, "tok", now.Add(time.Minute)))
	assert.True(t, b.IsRevoked(ctx, "tok"))
	assert.False(t, b.IsRevoked(ctx, "other"))

	now = now.Add(2 * time.Minute)
	assert.False(t, b.IsRevoked(ctx, "tok"))
}

func TestTokenBlacklist_Redis(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	rc := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rc.Close() })
	b := NewTokenBlacklist(rc)

	require.NoError(t, b.Revoke(ctx, "tok", time.Now().Add(time.Minute)))
	assert.True(t, b.IsRevoked(ctx, "tok"))
	assert.True(t, mr.Exists(blacklistPrefix+"tok"))

	mr.FastForward(2 * time.Minute)
	assert.False(t, b.IsRevoked(ctx, "tok"))
}

func TestLocalMediaStore_SavesImages(t *testing.T) {
	root := t.TempDir()
	s := NewLocalMediaStore(root, 1)

	ref, err := s.Save(bytes.NewReader(pngBytes(t)))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ref, "posts/"))
	assert.True(t, strings.HasSuffix(ref, ".png"))
	_, err = os.Stat(filepath.Join(root, filepath.FromSlash(ref)))
	require.NoError(t, err)

	require.NoError(t, s.Remove(ref))
	_, err = os.Stat(filepath.Join(root, filepath.FromSlash(ref)))
	assert.True(t, os.IsNotExist(err))
	assert.Error(t, s.Remove("../etc/passwd"))
}

func TestLocalMediaStore_Rejects(t *testing.T) {
	s := NewLocalMediaStore(t.TempDir(), 1)

	_, err := s.Save(strings.NewReader("just some text, not a picture"))
	assert.ErrorIs(t, err, ErrNotImage)

	s.MaxBytes = 10
	_, err = s.Save(bytes.NewReader(pngBytes(t)))
	assert.ErrorIs(t, err, ErrTooLarge)
}
