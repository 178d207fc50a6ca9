package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"kmapi/docs"
	"kmapi/internal/config"
	"kmapi/internal/database"
	"kmapi/internal/database/migration"
	handlers "kmapi/internal/http/handler"
	"kmapi/internal/http/middleware"
	"kmapi/internal/logging"
	"kmapi/internal/otel"
	"kmapi/internal/repository/postgres"
	"kmapi/internal/service"
	"kmapi/internal/storage"
)

const shutdownTimeout = 10 * time.Second

// @title Knowledge Mining API
// @version 1.0
// @description Document storage, traits and summarization queue dispatch.
// @BasePath /
func main() {
	if err := run(); err != nil {
		slog.Error("server_exit", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()
	if err := cfg.Queue.Validate(); err != nil {
		return err
	}

	logger, closeLog, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer closeLog()
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, logger)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			logger.Error("tracing_shutdown_failed", "error", err)
		}
	}()

	// PostgreSQL backs the dispatch queues
	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, logger, cfg.Database.Host); err != nil {
		return err
	}

	objStore, err := storage.New(cfg.Storage)
	if err != nil {
		return err
	}
	logger.Info("storage_ready", "driver", cfg.Storage.Driver, "bucket", cfg.Storage.Bucket)

	msgRepo := postgres.NewMessagePostgres(db)
	docSvc := service.NewDocumentService(objStore, logger)
	queueSvc := service.NewQueueService(msgRepo, cfg.Queue, logger)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewDBStatsCollector(db, database.ApplicationName),
	)
	metrics, err := middleware.NewPrometheusMiddleware(reg, "/metrics")
	if err != nil {
		return err
	}

	app := fiber.New(fiber.Config{
		ErrorHandler:          handlers.ErrorHandler(),
		BodyLimit:             cfg.BodyLimitMB * 1024 * 1024,
		DisableStartupMessage: true,
		// Params and queries flow into span attributes exported after the request ends.
		Immutable:             true,
	})

	// RequestID runs first so traces, metrics and logs all see the same ID
	app.Use(middleware.RequestID())
	app.Use(otelfiber.Middleware())
	app.Use(metrics.Handler())
	app.Use(middleware.Logger(logger))

	handlers.RegisterRoutes(app, db, docSvc, queueSvc, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	addr := ":" + cfg.Port
	errCh := make(chan error, 1)
	go func() {
		logger.Info("server_listening", "addr", addr)
		errCh <- app.Listen(addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("server_shutdown")
	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return nil
}
