package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/rayan-crm-api/internal/config"
	"github.com/noah-isme/rayan-crm-api/internal/database"
	"github.com/noah-isme/rayan-crm-api/internal/handler"
	"github.com/noah-isme/rayan-crm-api/internal/middleware"
	"github.com/noah-isme/rayan-crm-api/internal/repository"
	"github.com/noah-isme/rayan-crm-api/internal/router"
	"github.com/noah-isme/rayan-crm-api/internal/service"
	"github.com/noah-isme/rayan-crm-api/internal/store"
	"github.com/noah-isme/rayan-crm-api/internal/views"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Str("app", cfg.AppName).Logger()

	dataset, err := store.LoadFile(cfg.DatasetPath)
	if err != nil {
		log.Fatalf("failed to load dataset: %v", err)
	}
	crmStore := store.New(dataset)
	logger.Info().
		Str("path", cfg.DatasetPath).
		Int("students", len(dataset.Students)).
		Int("installments", len(dataset.Installments)).
		Msg("dataset loaded")

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
	} else {
		logger.Info().Msg("redis not configured; views are computed on every read")
	}

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = database.ConnectNATS(cfg.NATSURL, cfg.AppName)
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer natsConn.Drain()
	}

	db, err := database.OpenActivityDB(cfg.ActivityDSN)
	if err != nil {
		log.Fatalf("failed to open activity database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("failed to access activity database handle: %v", err)
	}
	defer sqlDB.Close()

	healthChecks := map[string]handler.HealthCheckFunc{
		"activity_db": sqlDB.PingContext,
	}
	if redisClient != nil {
		healthChecks["redis"] = func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}
	}
	if natsConn != nil {
		healthChecks["nats"] = func(context.Context) error {
			if status := natsConn.Status(); status != nats.CONNECTED {
				return fmt.Errorf("nats connection %s", status)
			}
			return nil
		}
	}

	activityRepo := repository.NewActivityLogRepository(db)
	if err := activityRepo.Migrate(context.Background()); err != nil {
		log.Fatalf("failed to migrate activity log: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changeFeed := service.NewChangeFeed(redisClient, cfg.ChangesChannel, natsConn, logger)
	crmStore.Subscribe(changeFeed.Observe)
	changeFeed.Start(ctx)

	validate := validator.New(validator.WithRequiredStructEnabled())
	activityService := service.NewActivityService(activityRepo, logger)

	backend := service.Backend{
		Store:    crmStore,
		Views:    views.New(views.NewRandomPlaceholders(cfg.PlaceholderSeed), cfg.Location()),
		Cache:    service.NewViewCache(redisClient, cfg.ViewCacheTTL, logger),
		Activity: activityService,
	}

	studentService := service.NewStudentService(backend, validate, cfg.NoteAuthor, logger)
	catalogService := service.NewCatalogService(backend, logger)
	financeService := service.NewFinanceService(backend, validate, cfg.NoteAuthor, logger)
	datasetService := service.NewDatasetService(backend, cfg.SeedEnabled, cfg.SeedToken, cfg.DatasetMaxUploadMB, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
		BodyLimit:    (cfg.DatasetMaxUploadMB + 1) * 1024 * 1024,
	})

	middleware.Register(app, middleware.Config{
		Logger:       &logger,
		AllowOrigins: cfg.AllowOrigins,
		AccessLog:    cfg.AccessLog,
	})
	router.Register(app, cfg, router.Dependencies{
		StudentHandler:    handler.NewStudentHandler(studentService, logger),
		CatalogHandler:    handler.NewCatalogHandler(catalogService, logger),
		FinanceHandler:    handler.NewFinanceHandler(financeService, logger),
		ActivityHandler:   handler.NewActivityHandler(activityService, logger),
		ScreenHandler:     handler.NewScreenHandler(),
		ChangeFeedHandler: handler.NewChangeFeedHandler(changeFeed, crmStore.Revision, logger),
		DatasetHandler:    handler.NewDatasetHandler(datasetService, logger),
		Revision:          crmStore.Revision,
		HealthChecks:      healthChecks,
		JWTMiddleware:     middleware.JWTProtected(cfg.JWTSecret),
		RateLimiter:       middleware.RateLimit("mutations", cfg.RateLimitMax, cfg.RateLimitWindow),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app, cancel)
}

func waitForShutdown(app *fiber.App, stopFeed context.CancelFunc) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()
	stopFeed()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
