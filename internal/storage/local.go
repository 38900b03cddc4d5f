package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// LocalAdapter implements the Adapter interface for the local filesystem.
// Relative paths resolve against basePath; absolute paths are used as-is.
type LocalAdapter struct {
	basePath string
}

// NewLocalAdapter creates a new local filesystem adapter
func NewLocalAdapter(basePath string) (*LocalAdapter, error) {
	info, err := os.Stat(basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to access base path: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("base path is not a directory: %s", basePath)
	}

	return &LocalAdapter{
		basePath: basePath,
	}, nil
}

// Get retrieves data from the given path
func (l *LocalAdapter) Get(ctx context.Context, path string) (io.ReadCloser, error) {
	file, err := os.Open(l.fullPath(path))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	return file, nil
}

// Stat returns metadata for the given path
func (l *LocalAdapter) Stat(ctx context.Context, path string) (*Metadata, error) {
	info, err := os.Stat(l.fullPath(path))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("not a file: %s", path)
	}

	return &Metadata{
		Path:         path,
		Size:         info.Size(),
		LastModified: info.ModTime(),
	}, nil
}

// List returns paths matching the given prefix. Only the directory
// containing the prefix is walked, not the whole base path.
func (l *LocalAdapter) List(ctx context.Context, prefix string) ([]string, error) {
	fullPrefix := l.fullPath(prefix)
	root := fullPrefix
	if prefix != "" && !strings.HasSuffix(prefix, string(filepath.Separator)) {
		if info, err := os.Stat(fullPrefix); err != nil || !info.IsDir() {
			root = filepath.Dir(fullPrefix)
		}
	}

	var paths []string
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			// Unreadable entries below the root are skipped
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		if info.IsDir() {
			if path != root && strings.HasPrefix(info.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}

		if strings.HasPrefix(path, fullPrefix) {
			rel := path
			if !filepath.IsAbs(prefix) {
				if r, err := filepath.Rel(l.basePath, path); err == nil {
					rel = r
				}
			}
			paths = append(paths, rel)
		}

		return nil
	})
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list files: %w", err)
	}

	sort.Strings(paths)
	return paths, nil
}

// Close cleans up any resources
func (l *LocalAdapter) Close() error {
	// No cleanup needed for local adapter
	return nil
}

// fullPath returns the full filesystem path
func (l *LocalAdapter) fullPath(path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(l.basePath, path)
}
