package main

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"progressapi/internal/config"
	"progressapi/internal/database"
	"progressapi/internal/database/migration"
	handlers "progressapi/internal/http/handler"
	"progressapi/internal/http/middleware"
	"progressapi/internal/otel"
	"progressapi/internal/repository/postgres"
	"progressapi/internal/service"
	"progressapi/internal/storage"
)

func main() {
	// Configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()
	loc := time.UTC

	ctx := context.Background()

	shutdownTracing, err := otel.Init(ctx, loc)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}
	defer shutdownTracing(ctx)

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, loc, cfg.Database.Host); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	objStore, err := storage.NewMinIO(cfg.MinIO)
	if err != nil {
		log.Fatalf("failed to initialize object storage: %v", err)
	}

	stepRepo := postgres.NewStepPostgres(db)
	packageRepo := postgres.NewPackagePostgres(db)
	componentRepo := postgres.NewComponentPostgres(db)
	commentRepo := postgres.NewCommentPostgres(db)
	fileRepo := postgres.NewFilePostgres(db)
	linkRepo := postgres.NewLinkPostgres(db)

	progressSvc := service.NewProgressService(stepRepo, packageRepo, componentRepo, commentRepo)
	annSvc := service.NewAnnotationService(stepRepo, commentRepo, fileRepo, linkRepo, objStore)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
	})

	promMiddleware, err := middleware.NewPrometheusMiddleware(prometheus.DefaultRegisterer)
	if err != nil {
		log.Fatalf("failed to register metrics: %v", err)
	}

	app.Use(middleware.RequestID())
	app.Use(middleware.Logger())
	app.Use(otelfiber.Middleware())
	app.Use(promMiddleware.Handler())

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	handlers.RegisterRoutes(app, db, progressSvc, annSvc)

	addr := ":" + cfg.Port

	if err := app.Listen(addr); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
