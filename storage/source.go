package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Source is where staged cover/audio files are read from before they are
// pushed to the storage network.
type Source interface {
	// Stat returns the size in bytes of the named file.
	Stat(ctx context.Context, name string) (int64, error)
	// Open returns a reader over the named file's contents.
	Open(ctx context.Context, name string) (io.ReadCloser, error)
}

// ErrNotFound is returned when a staged file does not exist.
var ErrNotFound = errors.New("staged file not found")

// LocalSource serves files from a directory on disk (the public dir the
// frontend writes uploads into).
type LocalSource struct {
	root string
}

// NewLocalSource creates a LocalSource rooted at dir.
func NewLocalSource(dir string) *LocalSource {
	return &LocalSource{root: dir}
}

// Path resolves name inside the root. Leading slashes and ".." segments are
// cleaned away so a name can never point outside the root.
func (s *LocalSource) Path(name string) string {
	return filepath.Join(s.root, filepath.Clean(string(filepath.Separator)+name))
}

// Stat implements Source.
func (s *LocalSource) Stat(_ context.Context, name string) (int64, error) {
	p := s.Path(name)
	info, err := os.Stat(p)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, fmt.Errorf("%w: %s", ErrNotFound, p)
		}
		return 0, fmt.Errorf("stat %s: %w", p, err)
	}
	if info.IsDir() {
		return 0, fmt.Errorf("%s is a directory", p)
	}
	return info.Size(), nil
}

// Open implements Source.
func (s *LocalSource) Open(_ context.Context, name string) (io.ReadCloser, error) {
	p := s.Path(name)
	f, err := os.Open(p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, p)
		}
		return nil, fmt.Errorf("open %s: %w", p, err)
	}
	return f, nil
}

// FormatSize 格式化文件大小
func FormatSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGTPE"[exp])
}
