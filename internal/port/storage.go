package port

import (
	"context"
	"io"
)

// ContentStore is the local content tree. Keys are paths relative to the
// data root, as produced by contentpath.
type ContentStore interface {
	// Place moves a scratch file to key, creating parent directories.
	Place(ctx context.Context, src, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Remove(ctx context.Context, key string) error
	Open(ctx context.Context, key string) (io.ReadCloser, int64, error)
	Path(key string) string
}

// Storage is the off-site replica bucket.
type Storage interface {
	InitBucket(ctx context.Context) error
	FileExists(ctx context.Context, fileKey string) (bool, error)
	SaveFile(ctx context.Context, fileKey string, reader io.Reader, fileSize int64, contentType string) error
	RemoveFile(ctx context.Context, fileKey string) error
}
