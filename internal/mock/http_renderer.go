package mock

import (
	"context"

	"github.com/fhuszti/booru-ms-go/internal/port"
)

// HTTPRenderer implements port.HTTPRenderer for tests.
type HTTPRenderer struct {
	// stored values
	PostOut []byte

	// etag values
	EtagPost string

	// captured inputs
	GotPostID int64

	// errors
	GetPostErr error

	// call flags
	GetPostCalled bool
}

func (m *HTTPRenderer) RenderGetPost(ctx context.Context, getter port.PostGetter, id int64) ([]byte, string, error) {
	m.GetPostCalled = true
	m.GotPostID = id
	return m.PostOut, m.EtagPost, m.GetPostErr
}
