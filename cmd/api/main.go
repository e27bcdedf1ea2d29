package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"alumniapi/docs"
	"alumniapi/internal/background"
	"alumniapi/internal/config"
	"alumniapi/internal/database"
	"alumniapi/internal/database/migration"
	handlers "alumniapi/internal/http/handler"
	"alumniapi/internal/http/middleware"
	"alumniapi/internal/logger"
	"alumniapi/internal/notify"
	"alumniapi/internal/otel"
	"alumniapi/internal/repository/postgres"
	"alumniapi/internal/service"
	"alumniapi/internal/storage"
)

// @title Alumni API
// @version 1.0
// @description Extraction ingestion and enrollment records for alumni tracking.
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		loc = time.UTC
	}
	log := logger.New(os.Stdout, loc)
	slog.SetDefault(log)
	if err != nil {
		log.Warn("unknown timezone, using UTC", "timezone", cfg.Timezone, "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, log)
	if err != nil {
		fatal(log, "failed to initialize tracing", err)
	}

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		fatal(log, "failed to connect to database", err)
	}

	if err := migration.EnsureMigrated(ctx, db, log, cfg.Database.Host); err != nil {
		fatal(log, "failed to migrate database", err)
	}

	store, err := newStorage(ctx, cfg)
	if err != nil {
		fatal(log, "failed to initialize storage", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	ingestMetrics, err := service.NewIngestMetrics(reg)
	if err != nil {
		fatal(log, "failed to register ingest metrics", err)
	}
	httpMetrics, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		fatal(log, "failed to register http metrics", err)
	}

	hooks := background.NewManager(cfg.HookMaxWorkers, log)

	enrollmentRepo := postgres.NewEnrollmentPostgres(db)
	extractionSvc := service.NewExtractionService(service.ExtractionDeps{
		Config:   cfg.Ingest,
		Store:    store,
		Repo:     enrollmentRepo,
		Notifier: notify.New(cfg.Notifier),
		Runner:   hooks,
		Metrics:  ingestMetrics,
		Logger:   log,
	})
	enrollmentSvc := service.NewEnrollmentService(enrollmentRepo)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
		// multipart overhead on top of the file itself; the exact file limit is enforced by the service
		BodyLimit:             int(cfg.Ingest.MaxFileSizeBytes) + 1<<20,
		DisableStartupMessage: true,
	})

	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(log))
	app.Use(httpMetrics.Handler())
	app.Use(otelfiber.Middleware(otelfiber.WithNext(func(c *fiber.Ctx) bool {
		return c.Path() == "/metrics"
	})))

	handlers.RegisterRoutes(app, db, extractionSvc, enrollmentSvc)

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})))

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
	serveErr := make(chan error, 1)
	go func() {
		log.Info("http server listening", "addr", addr, "storage_driver", cfg.Storage.Driver)
		serveErr <- app.Listen(addr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			log.Error("http server stopped", "error", err)
		}
	case <-ctx.Done():
		log.Info("shutdown signal received")
	}

	shutdown(log, time.Duration(cfg.ShutdownTimeoutSec)*time.Second, app, hooks, shutdownTracing, db)
}

func newStorage(ctx context.Context, cfg *config.AppConfig) (storage.Storage, error) {
	switch cfg.Storage.Driver {
	case "local":
		return storage.NewLocal(cfg.Storage.LocalDir)
	case "minio":
		return storage.NewMinIO(ctx, cfg.MinIO)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

// shutdown stops accepting requests, lets running post-commit hooks finish, then releases
// tracing and the database.
func shutdown(log *slog.Logger, timeout time.Duration, app *fiber.App, hooks *background.Manager, tracing otel.ShutdownFunc, db *sql.DB) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Error("http server shutdown failed", "error", err)
	}

	done := make(chan error, 1)
	go func() { done <- hooks.Wait() }()
	select {
	case err := <-done:
		if err != nil {
			log.Warn("post-commit hooks finished with errors", "error", err)
		}
	case <-ctx.Done():
		log.Warn("timed out waiting for post-commit hooks")
	}

	if err := tracing(ctx); err != nil {
		log.Error("tracer shutdown failed", "error", err)
	}
	if err := db.Close(); err != nil {
		log.Error("database close failed", "error", err)
	}
	log.Info("shutdown complete")
}

func fatal(log *slog.Logger, msg string, err error) {
	log.Error(msg, "error", err)
	os.Exit(1)
}
