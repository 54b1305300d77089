package post

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fhuszti/booru-ms-go/internal/logger"
	"github.com/fhuszti/booru-ms-go/internal/port"
)

type thumbnailRegeneratorSrv struct {
	repo   port.PostRepository
	store  port.ContentStore
	thumbs port.ThumbnailGenerator
	tasks  port.TaskDispatcher
}

// compile-time check: *thumbnailRegeneratorSrv must satisfy port.ThumbnailRegenerator
var _ port.ThumbnailRegenerator = (*thumbnailRegeneratorSrv)(nil)

// NewThumbnailRegenerator constructs a ThumbnailRegenerator implementation.
func NewThumbnailRegenerator(repo port.PostRepository, store port.ContentStore, thumbs port.ThumbnailGenerator, tasks port.TaskDispatcher) port.ThumbnailRegenerator {
	return &thumbnailRegeneratorSrv{repo, store, thumbs, tasks}
}

// RegenerateThumbnail renders the thumbnail of an existing post again from
// its stored original, overwriting any previous one.
func (s *thumbnailRegeneratorSrv) RegenerateThumbnail(ctx context.Context, id int64) error {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrPostNotFound
		}
		return err
	}

	exists, err := s.store.Exists(ctx, p.ContentPath)
	if err != nil {
		return fmt.Errorf("check original %q: %w", p.ContentPath, err)
	}
	if !exists {
		return fmt.Errorf("%w: %s", ErrOriginalMissing, p.ContentPath)
	}

	if err := s.thumbs.Generate(ctx, s.store.Path(p.ContentPath), mimeOf(p), s.store.Path(p.ThumbnailPath)); err != nil {
		return fmt.Errorf("generate thumbnail for post #%d: %w", p.ID, err)
	}
	logger.Infof(ctx, "thumbnail regenerated for post #%d", p.ID)

	if err := s.tasks.EnqueueReplicatePost(ctx, p.ID); err != nil {
		logger.Warnf(ctx, "failed to enqueue replicate task for post #%d: %v", p.ID, err)
	}
	return nil
}
