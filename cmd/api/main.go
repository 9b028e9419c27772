package main

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/robfig/cron/v3"

	"github.com/spywithcode/ntpc/internal/config"
	handlers "github.com/spywithcode/ntpc/internal/http/handler"
	"github.com/spywithcode/ntpc/internal/http/middleware"
	"github.com/spywithcode/ntpc/internal/otel"
	"github.com/spywithcode/ntpc/internal/repository/jsonfile"
	"github.com/spywithcode/ntpc/internal/service"
	"github.com/spywithcode/ntpc/internal/storage"
)

func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()
	loc := time.Local

	shutdownTracing, err := otel.Init(context.Background(), loc)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}
	defer shutdownTracing(context.Background())

	// Content directory, created on first start
	assets, err := storage.NewLocalStore(cfg.Storage.DataDir)
	if err != nil {
		log.Fatalf("failed to initialize content directory: %v", err)
	}

	// Optional S3-compatible asset mirror; nil when not configured
	mirror, err := storage.NewMinIOMirror(cfg.Mirror)
	if err != nil {
		log.Fatalf("failed to initialize asset mirror: %v", err)
	}

	repo := jsonfile.NewCatalogJSONFile(cfg.Storage.CatalogPath)
	svc := service.NewClippingService(repo, assets, mirror, cfg.Storage.MaxUploadBytes)

	// Reconcile the content directory with the catalog before serving:
	// files dropped into the directory out-of-band get records.
	startupCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if res, err := svc.Refresh(startupCtx); err != nil {
		log.Printf("startup scan failed: %v", err)
	} else {
		log.Printf("startup scan: %d files, %d new, %d clippings",
			res.Stats.TotalFiles, res.Stats.NewFilesAdded, res.Stats.TotalClippings)
	}
	cancel()

	reg := prometheus.NewRegistry()
	promMiddleware, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		log.Fatalf("failed to register metrics: %v", err)
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
		// Multipart overhead on top of the file-size cap, which the
		// service enforces exactly.
		BodyLimit: int(cfg.Storage.MaxUploadBytes) + 1024*1024,
	})

	app.Use(middleware.RequestID())
	app.Use(middleware.Logger())
	app.Use(promMiddleware.Handler())
	app.Use(otelfiber.Middleware())

	handlers.RegisterRoutes(app, svc, *cfg, reg)

	if cfg.ScanSchedule != "" {
		scheduler := cron.New()
		if _, err := scheduler.AddFunc(cfg.ScanSchedule, func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if res, err := svc.Refresh(ctx); err != nil {
				log.Printf("scheduled scan failed: %v", err)
			} else if res.Stats.NewFilesAdded > 0 {
				log.Printf("scheduled scan: %d new clippings", res.Stats.NewFilesAdded)
			}
		}); err != nil {
			log.Fatalf("invalid SCAN_SCHEDULE: %v", err)
		}
		scheduler.Start()
		defer scheduler.Stop()
	}

	addr := ":" + cfg.Server.Port

	if err := app.Listen(addr); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
