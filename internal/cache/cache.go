package cache

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/fhuszti/booru-ms-go/internal/port"
	"github.com/redis/go-redis/v9"
)

type Cache struct {
	client *redis.Client
}

// compile-time check: *Cache must satisfy port.Cache
var _ port.Cache = (*Cache)(nil)

func NewCache(addr, password string) *Cache {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	return &Cache{client: rdb}
}

// GetPostDetails returns nil on a cache miss.
func (c *Cache) GetPostDetails(ctx context.Context, id int64) ([]byte, error) {
	log.Printf("getting entry in cache for post #%d...", id)

	val, err := c.client.Get(ctx, postKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}
	return val, nil
}

func (c *Cache) GetEtagPostDetails(ctx context.Context, id int64) (string, error) {
	val, err := c.client.Get(ctx, etagKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("redis get failed: %w", err)
	}
	return val, nil
}

// SetPostDetails is best effort; a failed write only costs a later miss.
func (c *Cache) SetPostDetails(ctx context.Context, id int64, data []byte, validUntil time.Time) {
	log.Printf("creating entry in cache for post #%d, valid until %s...", id, validUntil.Format(time.RFC1123))

	if err := c.client.Set(ctx, postKey(id), data, time.Until(validUntil)).Err(); err != nil {
		log.Printf("redis set failed for post #%d: %v", id, err)
	}
}

func (c *Cache) SetEtagPostDetails(ctx context.Context, id int64, etag string, validUntil time.Time) {
	if err := c.client.Set(ctx, etagKey(id), etag, time.Until(validUntil)).Err(); err != nil {
		log.Printf("redis set failed for etag of post #%d: %v", id, err)
	}
}

func (c *Cache) DeletePostDetails(ctx context.Context, id int64) error {
	log.Printf("deleting entry in cache for post #%d...", id)

	if err := c.client.Del(ctx, postKey(id)).Err(); err != nil {
		return fmt.Errorf("redis del failed: %w", err)
	}
	return nil
}

func (c *Cache) DeleteEtagPostDetails(ctx context.Context, id int64) error {
	if err := c.client.Del(ctx, etagKey(id)).Err(); err != nil {
		return fmt.Errorf("redis del failed: %w", err)
	}
	return nil
}

func postKey(id int64) string {
	return "post:" + strconv.FormatInt(id, 10)
}

func etagKey(id int64) string {
	return "post:" + strconv.FormatInt(id, 10) + ":etag"
}
