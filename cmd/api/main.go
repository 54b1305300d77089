package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/fhuszti/booru-ms-go/internal/cache"
	"github.com/fhuszti/booru-ms-go/internal/config"
	"github.com/fhuszti/booru-ms-go/internal/contentpath"
	"github.com/fhuszti/booru-ms-go/internal/db"
	"github.com/fhuszti/booru-ms-go/internal/handler/api"
	"github.com/fhuszti/booru-ms-go/internal/logger"
	"github.com/fhuszti/booru-ms-go/internal/metrics"
	cMiddleware "github.com/fhuszti/booru-ms-go/internal/middleware"
	"github.com/fhuszti/booru-ms-go/internal/model"
	"github.com/fhuszti/booru-ms-go/internal/port"
	"github.com/fhuszti/booru-ms-go/internal/renderer"
	"github.com/fhuszti/booru-ms-go/internal/repository/mariadb"
	"github.com/fhuszti/booru-ms-go/internal/spool"
	"github.com/fhuszti/booru-ms-go/internal/storage"
	"github.com/fhuszti/booru-ms-go/internal/task"
	"github.com/fhuszti/booru-ms-go/internal/thumbnail"
	postSvc "github.com/fhuszti/booru-ms-go/internal/usecase/post"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const staticPrefix = "/static"

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		logger.Errorf(ctx, "❌  Configuration error: %v", err)
		os.Exit(1)
	}

	logger.Init()

	database := initDb(ctx, cfg)

	postRepo := mariadb.NewPostRepository(database.DB)
	accessRepo := mariadb.NewAccessRepository(database.DB)
	identityRepo := mariadb.NewIdentityRepository(database.DB)

	r := initRouter(ctx, cfg, identityRepo)

	var ca port.Cache
	var dispatcher port.TaskDispatcher
	if cfg.RedisAddr != "" {
		ca = cache.NewCache(cfg.RedisAddr, cfg.RedisPassword)
		dispatcher = task.NewDispatcher(cfg.RedisAddr, cfg.RedisPassword)
		logger.Info(ctx, "✅  Redis cache enabled")
	} else {
		ca = cache.NewNoop()
		dispatcher = task.NewNoopDispatcher()
		logger.Warn(ctx, "⚠️  Redis not configured: caching and replication are disabled")
	}

	thumbs, err := thumbnail.NewFromSettings(cfg)
	if err != nil {
		logger.Errorf(ctx, "❌  Thumbnail configuration error: %v", err)
		os.Exit(1)
	}
	store := storage.NewFSStore(cfg.DataRoot)
	spooler := spool.New(filepath.Join(cfg.DataRoot, contentpath.ScratchRoot))
	postCfg := postSvc.Config{FileTimeout: cfg.IngestFileTimeout, StaticPrefix: staticPrefix, MaxPixels: cfg.MaxPixels}

	ingesterSvc, err := postSvc.NewIngester(postCfg, accessRepo, postRepo, spooler, store, thumbs, dispatcher, metrics.NewIngestObserver())
	if err != nil {
		logger.Errorf(ctx, "❌  %v", err)
		os.Exit(1)
	}
	r.Post("/api/posts/upload", api.UploadPostsHandler(ingesterSvc, cfg.MaxUploadBytes))

	getPostSvc := postSvc.NewPostGetter(postRepo, postCfg)
	rendererSvc := renderer.NewHTTPRenderer(ca)
	r.With(cMiddleware.WithPostID(), cMiddleware.RequirePermission(accessRepo, model.OperationRead, model.ResourcePosts)).
		Get("/api/posts/{id}", api.GetPostHandler(rendererSvc, getPostSvc))

	mountStatic(r, cfg.DataRoot)

	listenRouter(ctx, r, cfg, database)
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

func initRouter(ctx context.Context, cfg *config.Settings, identity port.IdentityResolver) *chi.Mux {
	logger.Info(ctx, "initialising router...")

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cMiddleware.WithSession(identity))
	r.Use(cMiddleware.WithJWTAuth(cfg.JWTPublicKey, identity))

	r.NotFound(api.NotFoundHandler())
	r.MethodNotAllowed(api.MethodNotAllowedHandler())

	r.Handle("/metrics", promhttp.Handler())

	return r
}

// mountStatic serves the two content roots. The scratch area stays private.
func mountStatic(r chi.Router, dataRoot string) {
	for _, root := range []string{contentpath.MediaRoot, contentpath.ThumbnailRoot} {
		prefix := staticPrefix + "/" + root + "/"
		r.Handle(prefix+"*", http.StripPrefix(prefix, api.StaticHandler(filepath.Join(dataRoot, root))))
	}
}

func listenRouter(ctx context.Context, r *chi.Mux, cfg *config.Settings, database *db.Database) {
	srv := &http.Server{Addr: ":" + strconv.Itoa(cfg.ServerPort), Handler: r}

	// start serving
	go func() {
		logger.Infof(ctx, "🚀 API listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf(ctx, "❌  Listen error: %v", err)
			os.Exit(1)
		}
	}()

	// block until we get SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info(ctx, "🛑 Shutdown signal received, exiting…")

	// in-flight uploads get the same budget as a single file
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.IngestFileTimeout+10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf(ctx, "❌  Server shutdown failed: %v", err)
		os.Exit(1)
	}
	logger.Info(ctx, "✅  Server gracefully stopped")

	if err := database.Close(); err != nil {
		logger.Errorf(ctx, "DB close error: %v", err)
		os.Exit(1)
	}
}
