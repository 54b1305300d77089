package task

import (
	"context"

	"github.com/fhuszti/booru-ms-go/internal/port"
)

type NoopDispatcher struct{}

var _ port.TaskDispatcher = (*NoopDispatcher)(nil)

func NewNoopDispatcher() *NoopDispatcher { return &NoopDispatcher{} }

func (d *NoopDispatcher) EnqueueReplicatePost(ctx context.Context, id int64) error {
	return nil
}

func (d *NoopDispatcher) EnqueueRegenerateThumbnail(ctx context.Context, id int64) error {
	return nil
}
