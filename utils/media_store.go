package utils

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// MediaDir is the folder under the media root that holds post images.
const MediaDir = "posts"

var (
	// ErrNotImage is returned for uploads whose content is not an image.
	ErrNotImage = errors.New("upload a valid image")
	// ErrTooLarge is returned for uploads above the configured limit.
	ErrTooLarge = errors.New("file is too large")
)

// MediaStore saves uploaded blobs and returns their reference.
type MediaStore interface {
	Save(r io.Reader) (string, error)
	Remove(ref string) error
}

// LocalMediaStore keeps blobs on the local filesystem below Root.
type LocalMediaStore struct {
	Root     string
	MaxBytes int64
}

// NewLocalMediaStore stores files under root, rejecting files over maxMB megabytes.
func NewLocalMediaStore(root string, maxMB int) *LocalMediaStore {
	return &LocalMediaStore{Root: root, MaxBytes: int64(maxMB) * 1024 * 1024}
}

// Save sniffs r, writes it as posts/<uuid><ext> and returns that reference.
func (s *LocalMediaStore) Save(r io.Reader) (string, error) {
	lr := &io.LimitedReader{R: r, N: s.MaxBytes + 1}
	data, err := io.ReadAll(lr)
	if err != nil {
		return "", err
	}
	if int64(len(data)) > s.MaxBytes {
		return "", ErrTooLarge
	}
	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return "", ErrNotImage
	}

	dir := filepath.Join(s.Root, MediaDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create media directory: %w", err)
	}
	name := uuid.NewString() + mt.Extension()
	dst := filepath.Join(dir, name)
	out, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(out, bytes.NewReader(data)); err != nil {
		_ = out.Close()
		_ = os.Remove(dst)
		return "", err
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(dst)
		return "", err
	}
	return path.Join(MediaDir, name), nil
}

// Remove deletes a blob previously returned by Save. Missing files are ignored.
func (s *LocalMediaStore) Remove(ref string) error {
	clean := path.Clean("/" + ref)[1:]
	if !strings.HasPrefix(clean, MediaDir+"/") {
		return fmt.Errorf("invalid media reference %q", ref)
	}
	err := os.Remove(filepath.Join(s.Root, filepath.FromSlash(clean)))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
