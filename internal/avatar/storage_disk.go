package avatar

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

// DiskStorage writes avatars under a directory that is served statically at
// /avatars. Files are keyed by user ID, so a re-upload replaces the previous
// avatar in place.
type DiskStorage struct {
	dir string
}

func NewDiskStorage(dir string) *DiskStorage {
	return &DiskStorage{dir: dir}
}

func (s *DiskStorage) Save(_ context.Context, userID uuid.UUID, img image.Image) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create avatar dir: %w", err)
	}
	filename := userID.String() + ".jpg"
	if err := imaging.Save(img, filepath.Join(s.dir, filename)); err != nil {
		return "", fmt.Errorf("save avatar: %w", err)
	}
	return "/avatars/" + filename, nil
}
