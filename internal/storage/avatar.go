package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// AvatarURLPrefix is the public path under which avatars are served.
const AvatarURLPrefix = "/uploads/avatars/"

type AvatarStore interface {
	Save(ctx context.Context, userID int64, ext string, r io.Reader) (string, error)
	Remove(ctx context.Context, url string) error
}

// DiskAvatarStore writes avatars to <dir>/<userID>/<uuid><ext>.
type DiskAvatarStore struct {
	dir string
}

func NewDiskAvatarStore(dir string) (*DiskAvatarStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create avatar directory: %w", err)
	}
	return &DiskAvatarStore{dir: dir}, nil
}

func (s *DiskAvatarStore) Dir() string { return s.dir }

func (s *DiskAvatarStore) Save(ctx context.Context, userID int64, ext string, r io.Reader) (string, error) {
	userDir := filepath.Join(s.dir, strconv.FormatInt(userID, 10))
	if err := os.MkdirAll(userDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	filename := uuid.NewString() + ext
	dst, err := os.Create(filepath.Join(userDir, filename))
	if err != nil {
		return "", fmt.Errorf("failed to create avatar file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, r); err != nil {
		_ = os.Remove(dst.Name())
		return "", fmt.Errorf("failed to write avatar file: %w", err)
	}

	return fmt.Sprintf("%s%d/%s", AvatarURLPrefix, userID, filename), nil
}

// Remove deletes the file behind a URL returned by Save. Foreign URLs are ignored.
func (s *DiskAvatarStore) Remove(ctx context.Context, url string) error {
	if !strings.HasPrefix(url, AvatarURLPrefix) {
		return nil
	}
	rel := filepath.Clean(strings.TrimPrefix(url, AvatarURLPrefix))
	if rel == "." || strings.HasPrefix(rel, "..") || filepath.IsAbs(rel) {
		return nil
	}
	err := os.Remove(filepath.Join(s.dir, rel))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
