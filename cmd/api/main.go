package main

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"healthe/internal/config"
	"healthe/internal/database"
	"healthe/internal/database/migration"
	handlers "healthe/internal/http/handler"
	"healthe/internal/http/middleware"
	"healthe/internal/otel"
	"healthe/internal/report"
	"healthe/internal/repository/postgres"
	"healthe/internal/service"
	"healthe/internal/storage"
)

func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	ctx := context.Background()

	// Initialize tracing. Degrades to noop when the exporter is unreachable.
	shutdownTracing, err := otel.Init(ctx, time.UTC)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}
	defer shutdownTracing(ctx)

	// Initialize PostgreSQL connection (with pooling via database/sql)
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	// Apply schema migrations on a fresh database
	if err := migration.EnsureMigrated(ctx, db, time.UTC, cfg.Database.Host); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	// Local report directory, one PDF per submission
	files, err := storage.NewFileStore(cfg.Report.Dir)
	if err != nil {
		log.Fatalf("failed to initialize report store: %v", err)
	}

	// Optional best-effort archive of rendered reports to object storage
	var archive storage.Archiver
	if cfg.Report.ArchiveEnabled {
		archive, err = storage.NewMinIO(cfg.MinIO)
		if err != nil {
			log.Fatalf("failed to initialize report archive: %v", err)
		}
	}

	// Initialize repositories and services
	intakeRepo := postgres.NewIntakePostgres(db)
	intakeSvc := service.NewIntakeService(intakeRepo, report.NewPDFRenderer(), files, archive)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
	})

	// Register global middleware
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	// JSON Logger middleware for structured request logs
	app.Use(middleware.Logger())
	// OpenTelemetry spans per request
	app.Use(otelfiber.Middleware())

	// Prometheus metrics: per-route counters and latency histograms
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	promMiddleware, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		log.Fatalf("failed to register metrics: %v", err)
	}
	app.Use(promMiddleware.Handler())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	// Intake form and other static assets
	app.Static("/static", cfg.StaticDir)

	// Register HTTP routes with injected service
	handlers.RegisterRoutes(app, db, intakeSvc, files)

	addr := ":" + cfg.Port

	if err := app.Listen(addr); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
