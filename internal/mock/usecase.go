package mock

import (
	"context"

	"github.com/fhuszti/booru-ms-go/internal/model"
	"github.com/fhuszti/booru-ms-go/internal/port"
)

// MockPostGetter implements port.PostGetter for tests.
type MockPostGetter struct {
	Out    *port.GetPostOutput
	Err    error
	Called bool
}

func (m *MockPostGetter) GetPost(ctx context.Context, id int64) (*port.GetPostOutput, error) {
	m.Called = true
	return m.Out, m.Err
}

// MockIngester implements port.Ingester for tests. Files are drained from
// the source so handler tests see the multipart reader fully consumed.
type MockIngester struct {
	Out []port.IngestOutcome
	Err error

	Called    bool
	GotCaller model.Caller
	GotNames  []string
}

func (m *MockIngester) Ingest(ctx context.Context, caller model.Caller, src port.UploadSource) ([]port.IngestOutcome, error) {
	m.Called = true
	m.GotCaller = caller
	for {
		f, err := src.Next()
		if err != nil {
			break
		}
		m.GotNames = append(m.GotNames, f.Name)
	}
	return m.Out, m.Err
}

// MockReplicator implements port.PostReplicator for tests.
type MockReplicator struct {
	Err    error
	Called bool
	GotID  int64
}

func (m *MockReplicator) ReplicatePost(ctx context.Context, id int64) error {
	m.Called = true
	m.GotID = id
	return m.Err
}

// MockRegenerator implements port.ThumbnailRegenerator for tests.
type MockRegenerator struct {
	Err    error
	Called bool
	GotID  int64
}

func (m *MockRegenerator) RegenerateThumbnail(ctx context.Context, id int64) error {
	m.Called = true
	m.GotID = id
	return m.Err
}
