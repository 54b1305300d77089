package testutil

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/fhuszti/booru-ms-go/internal/storage"
	"github.com/minio/minio-go/v7"
)

// SetupTestBucket creates a bucket private to the test and empties and
// removes it afterwards.
func SetupTestBucket(t *testing.T, strg *storage.Strg) *storage.MinioStorage {
	t.Helper()
	ctx := context.Background()
	name := fmt.Sprintf("replica-%d", time.Now().UnixNano())
	name = strings.ToLower(name)

	bucket := strg.WithBucket(name)
	if err := bucket.InitBucket(ctx); err != nil {
		t.Fatalf("create bucket %q: %v", name, err)
	}

	client, ok := strg.Client.(*minio.Client)
	if !ok {
		return bucket
	}
	t.Cleanup(func() {
		for obj := range client.ListObjects(ctx, name, minio.ListObjectsOptions{Recursive: true}) {
			if obj.Err != nil {
				continue
			}
			_ = client.RemoveObject(ctx, name, obj.Key, minio.RemoveObjectOptions{})
		}
		if err := client.RemoveBucket(ctx, name); err != nil {
			t.Logf("could not remove bucket %q: %v", name, err)
		}
	})
	return bucket
}
