package storage

import (
	"context"
	"fmt"
	"io"
)

// Storage defines the interface for catalog photo storage backends.
type Storage interface {
	// Put stores an object under the given key.
	Put(ctx context.Context, key string, reader io.Reader, contentType string) error

	// Get retrieves an object by key.
	Get(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes an object. Returns nil if it doesn't exist.
	Delete(ctx context.Context, key string) error

	// Exists checks whether an object is present.
	Exists(ctx context.Context, key string) (bool, error)

	// GetURL returns the public URL for a stored object.
	GetURL(key string) string

	// GetInfo returns object metadata.
	GetInfo(ctx context.Context, key string) (*FileInfo, error)
}

// FileInfo holds stored object metadata
type FileInfo struct {
	Key         string
	Size        int64
	ContentType string
	URL         string
}

// Config holds storage backend configuration
type Config struct {
	Backend string // "s3" or "local"

	S3Endpoint  string // empty for AWS, set for MinIO
	S3Region    string
	S3Bucket    string
	S3AccessKey string
	S3SecretKey string

	LocalPath    string
	LocalBaseURL string
}

// AllowedMimeTypes maps upload categories to accepted content types
var AllowedMimeTypes = map[string][]string{
	"photo": {"image/jpeg", "image/png", "image/webp"},
}

// MaxFileSizes maps upload categories to size caps in bytes
var MaxFileSizes = map[string]int64{
	"photo": 10 * 1024 * 1024,
}

// New creates the storage backend named by the config
func New(cfg Config) (Storage, error) {
	switch cfg.Backend {
	case "s3":
		return NewS3Storage(cfg)
	case "local", "":
		return NewLocalStorage(cfg.LocalPath, cfg.LocalBaseURL)
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", cfg.Backend)
	}
}
