package storage

import (
	"context"
	"io"
	"time"
)

// Adapter defines the read-only interface for document sources.
// The application never writes documents back.
type Adapter interface {
	// Get retrieves data from the given path
	Get(ctx context.Context, path string) (io.ReadCloser, error)

	// Stat returns metadata for the given path
	Stat(ctx context.Context, path string) (*Metadata, error)

	// List returns paths matching the given prefix
	List(ctx context.Context, prefix string) ([]string, error)

	// Close cleans up any resources
	Close() error
}

// Metadata represents file metadata
type Metadata struct {
	Path         string
	Size         int64
	LastModified time.Time
	ContentType  string // empty when the backend does not record one
}
