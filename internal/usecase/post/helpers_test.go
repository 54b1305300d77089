package post

import (
	"bytes"
	"context"
	"database/sql"
	"image"
	"image/color"
	"image/png"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/fhuszti/booru-ms-go/internal/model"
	"github.com/fhuszti/booru-ms-go/internal/port"
)

var testCfg = Config{FileTimeout: 10 * time.Second, StaticPrefix: "/static", MaxPixels: 100_000_000}

// pngBytes renders a w x h PNG filled with c.
func pngBytes(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	buf := &bytes.Buffer{}
	if err := png.Encode(buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

type sliceSource struct {
	files []port.UploadFile
	err   error
	reads int
}

func (s *sliceSource) Next() (*port.UploadFile, error) {
	s.reads++
	if len(s.files) == 0 {
		if s.err != nil {
			return nil, s.err
		}
		return nil, io.EOF
	}
	f := s.files[0]
	s.files = s.files[1:]
	return &f, nil
}

func source(bodies ...[]byte) *sliceSource {
	src := &sliceSource{}
	for i, b := range bodies {
		src.files = append(src.files, port.UploadFile{
			Name: "file" + string(rune('a'+i)),
			Body: bytes.NewReader(b),
		})
	}
	return src
}

// memRepo is an in-memory catalog with the same digest uniqueness rule as
// the posts table.
type memRepo struct {
	mu       sync.Mutex
	nextID   int64
	byID     map[int64]model.Post
	byDigest map[model.Digest]int64
}

func newMemRepo() *memRepo {
	return &memRepo{byID: map[int64]model.Post{}, byDigest: map[model.Digest]int64{}}
}

func (r *memRepo) Create(ctx context.Context, p *model.Post) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byDigest[p.Digest]; ok {
		return 0, ErrDuplicatePost
	}
	r.nextID++
	stored := *p
	stored.ID = r.nextID
	stored.CreatedAt = time.Now()
	r.byID[stored.ID] = stored
	r.byDigest[p.Digest] = stored.ID
	return stored.ID, nil
}

func (r *memRepo) GetByID(ctx context.Context, id int64) (*model.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &p, nil
}

func (r *memRepo) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.byID[id]; ok {
		delete(r.byDigest, p.Digest)
		delete(r.byID, id)
	}
	return nil
}

func (r *memRepo) ListCreatedBefore(ctx context.Context, before time.Time, afterID int64, limit int) ([]model.Post, error) {
	return nil, nil
}

func (r *memRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID)
}
