package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// GCSAdapter implements the Adapter interface for Google Cloud Storage
type GCSAdapter struct {
	client *gcs.Client
	bucket *gcs.BucketHandle
}

// GCSOptions holds GCS adapter configuration
type GCSOptions struct {
	Bucket          string
	CredentialsFile string // empty uses application default credentials
}

// NewGCSAdapter creates a new GCS adapter
func NewGCSAdapter(ctx context.Context, opts GCSOptions) (*GCSAdapter, error) {
	var clientOpts []option.ClientOption
	if opts.CredentialsFile != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(opts.CredentialsFile))
	}

	client, err := gcs.NewClient(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}

	return &GCSAdapter{
		client: client,
		bucket: client.Bucket(opts.Bucket),
	}, nil
}

// Get retrieves data from the given path
func (g *GCSAdapter) Get(ctx context.Context, path string) (io.ReadCloser, error) {
	reader, err := g.bucket.Object(path).NewReader(ctx)
	if err != nil {
		if errors.Is(err, gcs.ErrObjectNotExist) {
			return nil, fmt.Errorf("file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to read object: %w", err)
	}
	return reader, nil
}

// Stat returns metadata for the given path
func (g *GCSAdapter) Stat(ctx context.Context, path string) (*Metadata, error) {
	attrs, err := g.bucket.Object(path).Attrs(ctx)
	if err != nil {
		if errors.Is(err, gcs.ErrObjectNotExist) {
			return nil, fmt.Errorf("file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to stat object: %w", err)
	}

	return &Metadata{
		Path:         path,
		Size:         attrs.Size,
		LastModified: attrs.Updated,
		ContentType:  attrs.ContentType,
	}, nil
}

// List returns paths matching the given prefix
func (g *GCSAdapter) List(ctx context.Context, prefix string) ([]string, error) {
	var paths []string

	it := g.bucket.Objects(ctx, &gcs.Query{Prefix: prefix})
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", err)
		}
		paths = append(paths, attrs.Name)
	}

	return paths, nil
}

// Close releases the underlying client
func (g *GCSAdapter) Close() error {
	return g.client.Close()
}
