package port

import "context"

// TaskDispatcher enqueues asynchronous tasks related to posts.
type TaskDispatcher interface {
	EnqueueReplicatePost(ctx context.Context, id int64) error
	EnqueueRegenerateThumbnail(ctx context.Context, id int64) error
}
