// Package localfs stores photo bytes as files under a single root directory.
package localfs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/msomdec/photo-host/internal/domain"
)

// FileStore implements domain.FileStore on the local filesystem. Keys are
// flat file names relative to Root.
type FileStore struct {
	Root string
}

// New returns a FileStore rooted at root. The directory is created lazily on
// the first Put.
func New(root string) *FileStore {
	return &FileStore{Root: root}
}

func (s *FileStore) Put(ctx context.Context, data []byte, ext string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if strings.ContainsAny(ext, `/\`) {
		return "", fmt.Errorf("%w: bad extension %q", domain.ErrInvalidInput, ext)
	}
	if err := os.MkdirAll(s.Root, 0o755); err != nil {
		return "", fmt.Errorf("%w: %s: %v", domain.ErrDirectory, s.Root, err)
	}

	key := uuid.NewString() + ext
	tmp, err := os.CreateTemp(s.Root, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("%w: create temp file: %v", domain.ErrWrite, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("%w: %s: %v", domain.ErrWrite, key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("%w: %s: %v", domain.ErrWrite, key, err)
	}
	if err := os.Rename(tmpName, filepath.Join(s.Root, key)); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("%w: %s: %v", domain.ErrWrite, key, err)
	}
	return key, nil
}

func (s *FileStore) Get(ctx context.Context, key string) ([]byte, error) {
	p, err := s.resolve(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return data, nil
}

func (s *FileStore) Remove(ctx context.Context, key string) error {
	p, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s: %v", domain.ErrFileDeletion, key, err)
	}
	return nil
}

func (s *FileStore) Exists(ctx context.Context, key string) (bool, error) {
	p, err := s.resolve(key)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(p)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, fmt.Errorf("stat %s: %w", key, err)
	}
}

// resolve maps a key to a path inside Root, rejecting anything that would
// escape it.
func (s *FileStore) resolve(key string) (string, error) {
	if key == "" || key == "." || key == ".." || strings.ContainsAny(key, `/\`) || strings.Contains(key, "..") {
		return "", fmt.Errorf("%w: bad storage key %q", domain.ErrInvalidInput, key)
	}
	return filepath.Join(s.Root, key), nil
}
