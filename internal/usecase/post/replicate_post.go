package post

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/fhuszti/booru-ms-go/internal/logger"
	"github.com/fhuszti/booru-ms-go/internal/model"
	"github.com/fhuszti/booru-ms-go/internal/port"
	"github.com/fhuszti/booru-ms-go/internal/sniffer"
)

type replicatorSrv struct {
	repo    port.PostRepository
	store   port.ContentStore
	replica port.Storage
}

// compile-time check: *replicatorSrv must satisfy port.PostReplicator
var _ port.PostReplicator = (*replicatorSrv)(nil)

// NewPostReplicator constructs a PostReplicator implementation.
func NewPostReplicator(repo port.PostRepository, store port.ContentStore, replica port.Storage) port.PostReplicator {
	return &replicatorSrv{repo, store, replica}
}

// ReplicatePost uploads the original and the thumbnail of a post to the
// replica bucket under their content-tree keys.
func (s *replicatorSrv) ReplicatePost(ctx context.Context, id int64) error {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrPostNotFound
		}
		return err
	}

	if err := s.copy(ctx, p.ContentPath, mimeOf(p)); err != nil {
		return err
	}
	if err := s.copy(ctx, p.ThumbnailPath, "image/webp"); err != nil {
		return err
	}

	logger.Infof(ctx, "post #%d replicated", p.ID)
	return nil
}

func (s *replicatorSrv) copy(ctx context.Context, key, contentType string) error {
	exists, err := s.replica.FileExists(ctx, key)
	if err != nil {
		return fmt.Errorf("check replica for %q: %w", key, err)
	}
	if exists {
		return nil
	}

	r, size, err := s.store.Open(ctx, key)
	if err != nil {
		return fmt.Errorf("open %q: %w", key, err)
	}
	defer func() { _ = r.Close() }()

	if err := s.replica.SaveFile(ctx, key, r, size, contentType); err != nil {
		return fmt.Errorf("upload %q: %w", key, err)
	}
	return nil
}

// mimeOf recovers the stored type from the extension the content path was
// built with.
func mimeOf(p *model.Post) string {
	if f, ok := sniffer.ByExt(strings.TrimPrefix(path.Ext(p.ContentPath), ".")); ok {
		return f.MIME
	}
	return "application/octet-stream"
}
