package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/fhuszti/booru-ms-go/internal/cache"
	"github.com/fhuszti/booru-ms-go/internal/config"
	"github.com/fhuszti/booru-ms-go/internal/contentpath"
	"github.com/fhuszti/booru-ms-go/internal/db"
	"github.com/fhuszti/booru-ms-go/internal/logger"
	"github.com/fhuszti/booru-ms-go/internal/port"
	"github.com/fhuszti/booru-ms-go/internal/repository/mariadb"
	"github.com/fhuszti/booru-ms-go/internal/spool"
	"github.com/fhuszti/booru-ms-go/internal/storage"
	"github.com/fhuszti/booru-ms-go/internal/task"
	"github.com/fhuszti/booru-ms-go/internal/thumbnail"
	postSvc "github.com/fhuszti/booru-ms-go/internal/usecase/post"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		logger.Errorf(ctx, "❌  Configuration error: %v", err)
		os.Exit(1)
	}

	logger.Init()

	database := initDb(ctx, cfg)
	defer func() {
		if err := database.Close(); err != nil {
			logger.Warnf(ctx, "DB close error: %v", err)
		}
	}()

	repo := mariadb.NewPostRepository(database.DB)
	store := storage.NewFSStore(cfg.DataRoot)
	spooler := spool.New(filepath.Join(cfg.DataRoot, contentpath.ScratchRoot))
	dispatcher, ca := initQueue(ctx, cfg, repo, store)

	repairer := postSvc.NewBacklogRepairer(repo, store, dispatcher, ca, spooler, cfg.SpoolMaxAge)
	if err := repairer.RepairBacklog(ctx); err != nil {
		logger.Errorf(ctx, "❌  Backlog repair failed: %v", err)
		os.Exit(1)
	}
	logger.Info(ctx, "✅  Backlog repair completed")
}

func initDb(ctx context.Context, cfg *config.Settings) *db.Database {
	logger.Info(ctx, "initialising database...")
	database, err := db.NewFromConfig(db.ConfigFrom(cfg))
	if err != nil {
		logger.Errorf(ctx, "❌  Failed to connect to db: %v", err)
		os.Exit(1)
	}
	return database
}

// initQueue hands thumbnail work to the worker when redis is there and
// regenerates in this process otherwise.
func initQueue(ctx context.Context, cfg *config.Settings, repo port.PostRepository, store port.ContentStore) (port.TaskDispatcher, port.Cache) {
	if cfg.RedisAddr != "" {
		return task.NewDispatcher(cfg.RedisAddr, cfg.RedisPassword), cache.NewCache(cfg.RedisAddr, cfg.RedisPassword)
	}

	logger.Warn(ctx, "⚠️  Redis not configured: thumbnails are regenerated inline")
	thumbs, err := thumbnail.NewFromSettings(cfg)
	if err != nil {
		logger.Errorf(ctx, "❌  Thumbnail configuration error: %v", err)
		os.Exit(1)
	}
	regen := postSvc.NewThumbnailRegenerator(repo, store, thumbs, task.NewNoopDispatcher())
	return &task.InlineDispatcher{Regenerator: regen}, cache.NewNoop()
}
