package cache

import (
	"context"
	"time"

	"github.com/fhuszti/booru-ms-go/internal/port"
)

type NoopCache struct{}

// compile-time check: *NoopCache must satisfy port.Cache
var _ port.Cache = (*NoopCache)(nil)

func NewNoop() *NoopCache {
	return &NoopCache{}
}

func (n *NoopCache) GetPostDetails(ctx context.Context, id int64) ([]byte, error) {
	return nil, nil // always cache miss
}

func (n *NoopCache) GetEtagPostDetails(ctx context.Context, id int64) (string, error) {
	return "", nil
}

func (n *NoopCache) SetPostDetails(ctx context.Context, id int64, data []byte, validUntil time.Time) {
}

func (n *NoopCache) SetEtagPostDetails(ctx context.Context, id int64, etag string, validUntil time.Time) {
}

func (n *NoopCache) DeletePostDetails(ctx context.Context, id int64) error { return nil }

func (n *NoopCache) DeleteEtagPostDetails(ctx context.Context, id int64) error {
	return nil
}
