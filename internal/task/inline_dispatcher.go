package task

import (
	"context"

	"github.com/fhuszti/booru-ms-go/internal/port"
)

// InlineDispatcher runs tasks in the caller's goroutine. It stands in for
// the queue when no redis is configured. A nil use case skips its task.
type InlineDispatcher struct {
	Regenerator port.ThumbnailRegenerator
	Replicator  port.PostReplicator
}

var _ port.TaskDispatcher = (*InlineDispatcher)(nil)

func (d *InlineDispatcher) EnqueueReplicatePost(ctx context.Context, id int64) error {
	if d.Replicator == nil {
		return nil
	}
	return d.Replicator.ReplicatePost(ctx, id)
}

func (d *InlineDispatcher) EnqueueRegenerateThumbnail(ctx context.Context, id int64) error {
	if d.Regenerator == nil {
		return nil
	}
	return d.Regenerator.RegenerateThumbnail(ctx, id)
}
