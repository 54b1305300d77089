package post

import (
	"context"
	"fmt"
	"time"

	"github.com/fhuszti/booru-ms-go/internal/logger"
	"github.com/fhuszti/booru-ms-go/internal/model"
	"github.com/fhuszti/booru-ms-go/internal/port"
)

const repairPageSize = 500

type backlogRepairerSrv struct {
	repo        port.PostRepository
	store       port.ContentStore
	tasks       port.TaskDispatcher
	cache       port.Cache
	spooler     port.Spooler
	spoolMaxAge time.Duration
}

// compile-time check: *backlogRepairerSrv must satisfy port.BacklogRepairer
var _ port.BacklogRepairer = (*backlogRepairerSrv)(nil)

// NewBacklogRepairer constructs a BacklogRepairer implementation.
func NewBacklogRepairer(
	repo port.PostRepository,
	store port.ContentStore,
	tasks port.TaskDispatcher,
	cache port.Cache,
	spooler port.Spooler,
	spoolMaxAge time.Duration,
) port.BacklogRepairer {
	return &backlogRepairerSrv{repo, store, tasks, cache, spooler, spoolMaxAge}
}

// RepairBacklog looks at posts older than one hour, so in-flight ingests are
// left alone. Rows whose original is gone are deleted; rows missing only a
// thumbnail get a regeneration task. Stale spool files are swept last.
func (s *backlogRepairerSrv) RepairBacklog(ctx context.Context) error {
	cutoff := time.Now().Add(-1 * time.Hour)

	var afterID int64
	var deleted, regenerated int
	for {
		page, err := s.repo.ListCreatedBefore(ctx, cutoff, afterID, repairPageSize)
		if err != nil {
			return fmt.Errorf("list posts after #%d: %w", afterID, err)
		}
		for i := range page {
			d, r, err := s.repair(ctx, &page[i])
			if err != nil {
				return err
			}
			if d {
				deleted++
			}
			if r {
				regenerated++
			}
		}
		if len(page) < repairPageSize {
			break
		}
		afterID = page[len(page)-1].ID
	}

	if deleted == 0 && regenerated == 0 {
		logger.Info(ctx, "no posts found to repair")
	} else {
		logger.Infof(ctx, "repaired backlog: %d orphan rows deleted, %d thumbnails queued", deleted, regenerated)
	}

	swept, err := s.spooler.Sweep(ctx, time.Now().Add(-s.spoolMaxAge))
	if err != nil {
		return fmt.Errorf("sweep spool: %w", err)
	}
	if swept > 0 {
		logger.Infof(ctx, "removed %d stale spool files", swept)
	}
	return nil
}

func (s *backlogRepairerSrv) repair(ctx context.Context, p *model.Post) (deleted, regenerated bool, err error) {
	hasOriginal, err := s.store.Exists(ctx, p.ContentPath)
	if err != nil {
		return false, false, fmt.Errorf("check original of post #%d: %w", p.ID, err)
	}
	if !hasOriginal {
		logger.Errorf(ctx, "❌  Post #%d has no original at %q, deleting it", p.ID, p.ContentPath)
		if err := s.store.Remove(ctx, p.ThumbnailPath); err != nil {
			logger.Warnf(ctx, "failed to remove thumbnail of post #%d: %v", p.ID, err)
		}
		if err := s.repo.Delete(ctx, p.ID); err != nil {
			return false, false, fmt.Errorf("delete post #%d: %w", p.ID, err)
		}
		if err := s.cache.DeletePostDetails(ctx, p.ID); err != nil {
			logger.Warnf(ctx, "failed deleting cache for post #%d: %v", p.ID, err)
		}
		if err := s.cache.DeleteEtagPostDetails(ctx, p.ID); err != nil {
			logger.Warnf(ctx, "failed deleting etag cache for post #%d: %v", p.ID, err)
		}
		return true, false, nil
	}

	hasThumb, err := s.store.Exists(ctx, p.ThumbnailPath)
	if err != nil {
		return false, false, fmt.Errorf("check thumbnail of post #%d: %w", p.ID, err)
	}
	if hasThumb {
		return false, false, nil
	}

	logger.Infof(ctx, "starting thumbnail regeneration for post #%d", p.ID)
	if err := s.tasks.EnqueueRegenerateThumbnail(ctx, p.ID); err != nil {
		logger.Warnf(ctx, "failed to enqueue regenerate task for post #%d: %v", p.ID, err)
		return false, false, nil
	}
	return false, true, nil
}
