package mock

import (
	"bytes"
	"context"
	"io"
	"path"
)

// ContentStore implements port.ContentStore for tests. Keys listed in
// Missing report as absent; everything else exists.
type ContentStore struct {
	Root    string
	Missing map[string]bool
	OpenOut []byte

	PlaceErr  error
	ExistsErr error
	RemoveErr error
	OpenErr   error

	Placed  []string
	Removed []string
	Opened  []string
}

func (m *ContentStore) Place(ctx context.Context, src, key string) error {
	m.Placed = append(m.Placed, key)
	return m.PlaceErr
}

func (m *ContentStore) Exists(ctx context.Context, key string) (bool, error) {
	if m.ExistsErr != nil {
		return false, m.ExistsErr
	}
	return !m.Missing[key], nil
}

func (m *ContentStore) Remove(ctx context.Context, key string) error {
	m.Removed = append(m.Removed, key)
	return m.RemoveErr
}

func (m *ContentStore) Open(ctx context.Context, key string) (io.ReadCloser, int64, error) {
	m.Opened = append(m.Opened, key)
	if m.OpenErr != nil {
		return nil, 0, m.OpenErr
	}
	return io.NopCloser(bytes.NewReader(m.OpenOut)), int64(len(m.OpenOut)), nil
}

func (m *ContentStore) Path(key string) string {
	return path.Join(m.Root, key)
}

// Storage implements the replica storage interface for tests.
type Storage struct {
	// stored values
	ExistsOut bool

	// captured inputs
	SavedKeys         []string
	SavedContentTypes []string
	SavedSizes        []int64

	// errors
	InitBucketErr error
	RemoveErr     error
	SaveErr       error
	FileExistsErr error

	// call flags
	InitBucketCalled bool
	RemoveCalled     bool
	SaveCalled       bool
	FileExistsCalled bool
}

func (m *Storage) InitBucket(ctx context.Context) error {
	m.InitBucketCalled = true
	return m.InitBucketErr
}

func (m *Storage) RemoveFile(ctx context.Context, fileKey string) error {
	m.RemoveCalled = true
	return m.RemoveErr
}

func (m *Storage) SaveFile(ctx context.Context, fileKey string, reader io.Reader, fileSize int64, contentType string) error {
	m.SaveCalled = true
	if m.SaveErr != nil {
		return m.SaveErr
	}
	if _, err := io.Copy(io.Discard, reader); err != nil {
		return err
	}
	m.SavedKeys = append(m.SavedKeys, fileKey)
	m.SavedContentTypes = append(m.SavedContentTypes, contentType)
	m.SavedSizes = append(m.SavedSizes, fileSize)
	return nil
}

func (m *Storage) FileExists(ctx context.Context, fileKey string) (bool, error) {
	m.FileExistsCalled = true
	if m.FileExistsErr != nil {
		return false, m.FileExistsErr
	}
	return m.ExistsOut, nil
}
