package task

import (
	"context"

	"github.com/fhuszti/booru-ms-go/internal/port"
	"github.com/hibiken/asynq"
)

type Dispatcher struct {
	client *asynq.Client
}

// compile-time check
var _ port.TaskDispatcher = (*Dispatcher)(nil)

func NewDispatcher(addr, password string) *Dispatcher {
	c := asynq.NewClient(asynq.RedisClientOpt{Addr: addr, Password: password})
	return &Dispatcher{client: c}
}

func (d *Dispatcher) EnqueueReplicatePost(ctx context.Context, id int64) error {
	t, err := NewReplicatePostTask(id)
	if err != nil {
		return err
	}
	_, err = d.client.EnqueueContext(ctx, t, asynq.MaxRetry(10))
	return err
}

func (d *Dispatcher) EnqueueRegenerateThumbnail(ctx context.Context, id int64) error {
	t, err := NewRegenerateThumbnailTask(id)
	if err != nil {
		return err
	}
	_, err = d.client.EnqueueContext(ctx, t, asynq.MaxRetry(3))
	return err
}

func (d *Dispatcher) Close() error {
	return d.client.Close()
}
