package main

import (
	"context"
	"os"

	"github.com/fhuszti/booru-ms-go/internal/config"
	"github.com/fhuszti/booru-ms-go/internal/db"
	"github.com/fhuszti/booru-ms-go/internal/logger"
	"github.com/fhuszti/booru-ms-go/internal/migration"
	"github.com/go-sql-driver/mysql"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		logger.Errorf(ctx, "❌  Configuration error: %v", err)
		os.Exit(1)
	}

	database, err := initDb(cfg)
	if err != nil {
		logger.Errorf(ctx, "❌  Failed to connect to db: %v", err)
		os.Exit(1)
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Warnf(ctx, "DB close error: %v", err)
		}
	}()

	if err := migration.MigrateUp(database.DB); err != nil {
		logger.Errorf(ctx, "❌  Migration up failed: %v", err)
		os.Exit(1)
	}

	logger.Info(ctx, "✅  Migrations applied successfully")
}

// initDb opens a pool that accepts the multi-statement migration files.
func initDb(cfg *config.Settings) (*db.Database, error) {
	dsn, err := mysql.ParseDSN(cfg.MariaDBDSN)
	if err != nil {
		return nil, err
	}
	dsn.MultiStatements = true

	return db.New(dsn.FormatDSN(), cfg.MaxOpenConns, cfg.MaxIdleConns, cfg.ConnMaxLifetime)
}
