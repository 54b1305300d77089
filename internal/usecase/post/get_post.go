package post

import (
	"context"
	"database/sql"
	"errors"
	"path"
	"time"

	"github.com/fhuszti/booru-ms-go/internal/port"
)

const detailsTTL = 5 * time.Minute

type postGetterSrv struct {
	repo port.PostRepository
	cfg  Config
}

// compile-time check: *postGetterSrv must satisfy port.PostGetter
var _ port.PostGetter = (*postGetterSrv)(nil)

// NewPostGetter constructs a PostGetter implementation.
func NewPostGetter(repo port.PostRepository, cfg Config) port.PostGetter {
	return &postGetterSrv{repo, cfg}
}

func (s *postGetterSrv) GetPost(ctx context.Context, id int64) (*port.GetPostOutput, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	return &port.GetPostOutput{
		ValidUntil:   time.Now().Add(detailsTTL),
		ID:           p.ID,
		Digest:       p.Digest.String(),
		Width:        p.Width,
		Height:       p.Height,
		MediaKind:    p.MediaKind,
		ByteSize:     p.ByteSize,
		MediaURL:     path.Join(s.cfg.StaticPrefix, p.ContentPath),
		ThumbnailURL: path.Join(s.cfg.StaticPrefix, p.ThumbnailPath),
		CreatedAt:    p.CreatedAt,
	}, nil
}
