package testutil

import (
	"context"
	"database/sql"

	workerHandler "github.com/fhuszti/booru-ms-go/internal/handler/worker"
	"github.com/fhuszti/booru-ms-go/internal/logger"
	"github.com/fhuszti/booru-ms-go/internal/port"
	"github.com/fhuszti/booru-ms-go/internal/repository/mariadb"
	"github.com/fhuszti/booru-ms-go/internal/task"
	postSvc "github.com/fhuszti/booru-ms-go/internal/usecase/post"
	"github.com/hibiken/asynq"
)

// StartWorker starts an asynq worker processing post tasks against the given
// content tree and replica. It returns a function to shut the worker down.
func StartWorker(db *sql.DB, store port.ContentStore, thumbs port.ThumbnailGenerator, replica port.Storage, redisAddr string) func() {
	repo := mariadb.NewPostRepository(db)
	dispatcher := task.NewDispatcher(redisAddr, "")
	replicateSvc := postSvc.NewPostReplicator(repo, store, replica)
	regenerateSvc := postSvc.NewThumbnailRegenerator(repo, store, thumbs, dispatcher)

	mux := asynq.NewServeMux()
	mux.HandleFunc(task.TypeReplicatePost, func(ctx context.Context, t *asynq.Task) error {
		p, err := task.ParsePostPayload(t)
		if err != nil {
			return err
		}
		return workerHandler.ReplicatePostHandler(ctx, p, replicateSvc)
	})
	mux.HandleFunc(task.TypeRegenerateThumbnail, func(ctx context.Context, t *asynq.Task) error {
		p, err := task.ParsePostPayload(t)
		if err != nil {
			return err
		}
		return workerHandler.RegenerateThumbnailHandler(ctx, p, regenerateSvc)
	})

	srv := asynq.NewServer(asynq.RedisClientOpt{Addr: redisAddr}, asynq.Config{Concurrency: 2})
	go func() {
		if err := srv.Run(mux); err != nil {
			logger.Errorf(context.Background(), "worker stopped: %v", err)
		}
	}()

	return func() {
		srv.Shutdown()
		_ = dispatcher.Close()
	}
}
