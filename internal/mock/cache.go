package mock

import (
	"context"
	"time"
)

// Cache implements cache behaviour for tests.
type Cache struct {
	// stored values
	PostOut []byte

	// etag values
	EtagPost string

	// errors
	GetPostErr     error
	GetEtagPostErr error
	DelPostErr     error
	DelEtagPostErr error

	// call flags
	GetPostCalled     bool
	GetEtagPostCalled bool
	SetPostCalled     bool
	SetEtagPostCalled bool
	DelPostCalled     bool
	DelEtagPostCalled bool
}

func (c *Cache) GetPostDetails(ctx context.Context, id int64) ([]byte, error) {
	c.GetPostCalled = true
	if c.GetPostErr != nil {
		return nil, c.GetPostErr
	}
	return c.PostOut, nil
}

func (c *Cache) GetEtagPostDetails(ctx context.Context, id int64) (string, error) {
	c.GetEtagPostCalled = true
	if c.GetEtagPostErr != nil {
		return "", c.GetEtagPostErr
	}
	return c.EtagPost, nil
}

func (c *Cache) SetPostDetails(ctx context.Context, id int64, data []byte, validUntil time.Time) {
	c.SetPostCalled = true
	c.PostOut = data
}

func (c *Cache) SetEtagPostDetails(ctx context.Context, id int64, etag string, validUntil time.Time) {
	c.SetEtagPostCalled = true
	c.EtagPost = etag
}

func (c *Cache) DeletePostDetails(ctx context.Context, id int64) error {
	c.DelPostCalled = true
	return c.DelPostErr
}

func (c *Cache) DeleteEtagPostDetails(ctx context.Context, id int64) error {
	c.DelEtagPostCalled = true
	return c.DelEtagPostErr
}
