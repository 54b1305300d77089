package port

import (
	"context"
	"time"
)

// Cache provides caching capabilities for post details.
type Cache interface {
	GetPostDetails(ctx context.Context, id int64) ([]byte, error)
	GetEtagPostDetails(ctx context.Context, id int64) (string, error)
	SetPostDetails(ctx context.Context, id int64, data []byte, validUntil time.Time)
	SetEtagPostDetails(ctx context.Context, id int64, etag string, validUntil time.Time)
	DeletePostDetails(ctx context.Context, id int64) error
	DeleteEtagPostDetails(ctx context.Context, id int64) error
}
