package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fhuszti/booru-ms-go/internal/config"
	"github.com/fhuszti/booru-ms-go/internal/db"
	workerHandler "github.com/fhuszti/booru-ms-go/internal/handler/worker"
	"github.com/fhuszti/booru-ms-go/internal/logger"
	"github.com/fhuszti/booru-ms-go/internal/port"
	"github.com/fhuszti/booru-ms-go/internal/repository/mariadb"
	"github.com/fhuszti/booru-ms-go/internal/storage"
	"github.com/fhuszti/booru-ms-go/internal/task"
	"github.com/fhuszti/booru-ms-go/internal/thumbnail"
	postSvc "github.com/fhuszti/booru-ms-go/internal/usecase/post"
	"github.com/hibiken/asynq"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		logger.Errorf(ctx, "❌  Configuration error: %v", err)
		os.Exit(1)
	}
	if cfg.RedisAddr == "" {
		logger.Error(ctx, "⚠️  REDIS_ADDR must be set to run the worker")
		os.Exit(1)
	}

	logger.Init()

	database := initDb(cfg)

	repo := mariadb.NewPostRepository(database.DB)
	store := storage.NewFSStore(cfg.DataRoot)
	dispatcher := task.NewDispatcher(cfg.RedisAddr, cfg.RedisPassword)
	defer func() {
		if err := dispatcher.Close(); err != nil {
			logger.Warnf(ctx, "dispatcher close error: %v", err)
		}
	}()

	thumbs, err := thumbnail.NewFromSettings(cfg)
	if err != nil {
		logger.Errorf(ctx, "❌  Thumbnail configuration error: %v", err)
		os.Exit(1)
	}
	regenerateSvc := postSvc.NewThumbnailRegenerator(repo, store, thumbs, dispatcher)

	mux := asynq.NewServeMux()
	mux.HandleFunc(task.TypeRegenerateThumbnail, func(ctx context.Context, t *asynq.Task) error {
		p, err := task.ParsePostPayload(t)
		if err != nil {
			return err
		}
		return workerHandler.RegenerateThumbnailHandler(ctx, p, regenerateSvc)
	})

	if cfg.MinioEndpoint != "" {
		replica := initStorage(ctx, cfg)
		replicateSvc := postSvc.NewPostReplicator(repo, store, replica)
		mux.HandleFunc(task.TypeReplicatePost, func(ctx context.Context, t *asynq.Task) error {
			p, err := task.ParsePostPayload(t)
			if err != nil {
				return err
			}
			return workerHandler.ReplicatePostHandler(ctx, p, replicateSvc)
		})
	} else {
		logger.Warn(ctx, "⚠️  MINIO_ENDPOINT not set: replication tasks will not be processed")
	}

	runWorker(ctx, mux, cfg, database)
}

func initDb(cfg *config.Settings) *db.Database {
	ctx := context.Background()
	logger.Info(ctx, "initialising database...")

	database, err := db.NewFromConfig(db.ConfigFrom(cfg))
	if err != nil {
		logger.Errorf(ctx, "❌  Failed to connect to db: %v", err)
		os.Exit(1)
	}
	return database
}

func initStorage(ctx context.Context, cfg *config.Settings) port.Storage {
	client, err := storage.NewMinioClient(
		cfg.MinioEndpoint,
		cfg.MinioAccessKey,
		cfg.MinioSecretKey,
		cfg.MinioUseSSL,
	)
	if err != nil {
		logger.Errorf(ctx, "❌  Failed to initialize MinIO client: %v", err)
		os.Exit(1)
	}

	strg := client.WithBucket(cfg.MinioBucket)
	if err := strg.InitBucket(ctx); err != nil {
		logger.Errorf(ctx, "❌  Failed to initialize bucket %q: %v", cfg.MinioBucket, err)
		os.Exit(1)
	}
	return strg
}

func runWorker(ctx context.Context, mux *asynq.ServeMux, cfg *config.Settings, database *db.Database) {
	srv := asynq.NewServer(asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}, asynq.Config{Concurrency: 4})

	// Run server in background
	go func() {
		if err := srv.Run(mux); err != nil {
			logger.Errorf(context.Background(), "❌  Worker failed: %v", err)
			os.Exit(1)
		}
	}()
	logger.Info(ctx, "🚀 Worker started")

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh
	logger.Info(ctx, "🛑 Shutdown signal received, exiting…")

	// Give Asynq up to 30 sec to finish tasks
	done := make(chan struct{})
	go func() {
		srv.Shutdown() // stop accepting new tasks, finish in-flight
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(30 * time.Second):
		logger.Warn(ctx, "⚠️  Timed out waiting for in-flight tasks")
	}

	// Close DB
	if err := database.Close(); err != nil {
		logger.Warnf(ctx, "DB close error: %v", err)
	}
	logger.Info(ctx, "✅  Worker gracefully stopped")
}
