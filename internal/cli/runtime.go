package cli

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"time"

	"kmapi/internal/config"
	"kmapi/internal/database"
	"kmapi/internal/database/migration"
	"kmapi/internal/logging"
	"kmapi/internal/repository/postgres"
	"kmapi/internal/service"
	"kmapi/internal/storage"
)

type services struct {
	documents service.DocumentService
	queues    service.QueueService
	migrate   func(ctx context.Context) error
}

// openServicesFn is replaced in tests.
var openServicesFn = openServices

func openServices(ctx context.Context, needStorage, needDB bool) (*services, func(), error) {
	cfg := config.Load()

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, nil, err
	}
	// stdout carries command output, so logs go to stderr
	logger := slog.New(logging.NewHandler(os.Stderr, level, cfg.Log.Format))

	svcs := &services{}
	var db *sql.DB
	cleanup := func() {
		if db != nil {
			db.Close()
		}
	}

	if needStorage {
		store, err := storage.New(cfg.Storage)
		if err != nil {
			return nil, nil, fmt.Errorf("open storage: %w", err)
		}
		svcs.documents = service.NewDocumentService(store, logger)
	}

	if needDB {
		if err := cfg.Queue.Validate(); err != nil {
			return nil, nil, usageErrorf("invalid queue configuration: %v", err)
		}
		db, err = database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("open database: %w", err)
		}
		svcs.queues = service.NewQueueService(postgres.NewMessagePostgres(db), cfg.Queue, logger)
		svcs.migrate = func(ctx context.Context) error {
			return migration.EnsureMigrated(ctx, db, logger, cfg.Database.Host)
		}
	}

	return svcs, cleanup, nil
}

func withServices(cmdCtx context.Context, deps commandDeps, needStorage, needDB bool, fn func(context.Context, *services) error) error {
	timeout := 5 * time.Minute
	if deps.globals != nil && deps.globals.Timeout > 0 {
		timeout = deps.globals.Timeout
	}
	ctx, cancel := context.WithTimeout(cmdCtx, timeout)
	defer cancel()

	svcs, cleanup, err := openServicesFn(ctx, needStorage, needDB)
	if err != nil {
		return mapCommandError(err)
	}
	defer cleanup()

	return mapCommandError(fn(ctx, svcs))
}

func wantJSON(deps commandDeps) bool {
	return deps.globals != nil && deps.globals.JSON
}
