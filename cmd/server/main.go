package main

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/LatinRickshaw/social-media-agentic-solution/internal/brand"
	"github.com/LatinRickshaw/social-media-agentic-solution/internal/config"
	"github.com/LatinRickshaw/social-media-agentic-solution/internal/decision"
	"github.com/LatinRickshaw/social-media-agentic-solution/internal/domain/fiber/handler"
	"github.com/LatinRickshaw/social-media-agentic-solution/internal/logging"
	"github.com/LatinRickshaw/social-media-agentic-solution/internal/middleware"
	"github.com/LatinRickshaw/social-media-agentic-solution/internal/model"
	"github.com/LatinRickshaw/social-media-agentic-solution/internal/quality"
	"github.com/LatinRickshaw/social-media-agentic-solution/internal/repository"
	"github.com/LatinRickshaw/social-media-agentic-solution/internal/service"
	"github.com/LatinRickshaw/social-media-agentic-solution/internal/storage"
	"github.com/LatinRickshaw/social-media-agentic-solution/internal/usecase"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/healthcheck"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/pprof"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	ctx := context.Background()

	// Load .env file
	envErr := godotenv.Load()

	log := logging.NewLogger("social-media-generator")
	if envErr != nil {
		log.Info("no .env file loaded, using process environment")
	}

	appConfig := config.LoadAppConfig()
	policy, err := config.LoadAutomationPolicy()
	if err != nil {
		log.WithError(err).Fatal("invalid automation policy")
	}

	voice, err := brand.Load(appConfig.BrandGuidelinesPath)
	if err != nil {
		log.WithError(err).Warn("using default brand voice")
		voice = brand.New(brand.Guidelines{})
	}

	app := fiber.New(fiber.Config{
		AppName: appConfig.Name,
		ErrorHandler: func(ctx *fiber.Ctx, err error) error {
			// Status code defaults to 500
			code := fiber.StatusInternalServerError

			// Retrieve the custom status code if it's a *fiber.Error
			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
			}

			message := err.Error()
			if message == "" {
				message = "Internal Server Error"
			}

			return ctx.Status(code).JSON(fiber.Map{"error": message})
		},
	})
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
	}))
	app.Use(recover.New(recover.Config{
		EnableStackTrace: !appConfig.IsProduction(),
	}))

	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed, // 1
	}))
	app.Use(pprof.New(pprof.Config{
		Next: func(c *fiber.Ctx) bool {
			return appConfig.IsProduction()
		},
	}))
	app.Use(healthcheck.New())

	app.Use(helmet.New(helmet.Config{
		CrossOriginResourcePolicy: "cross-origin",
	}))

	app.Use(middleware.RateLimiter("global", 50, 1*time.Minute))
	app.Static("/images", appConfig.ImageDir)

	db := ConnectDB(log)

	postRepo := repository.NewPostRepository(db)
	checkRepo := repository.NewQualityCheckRepository(db)
	metricsRepo := repository.NewMetricsRepository(db)
	publishLogRepo := repository.NewPublishingLogRepository(db)
	feedbackRepo := repository.NewFeedbackRepository(db)

	openRouter := service.NewOpenRouterService(config.LoadOpenRouterConfig(), log.WithField("component", "openrouter"))
	publisher := service.NewWebhookPublisher(config.LoadPublisherConfig(), log.WithField("component", "publisher"))

	// Without Gemini, posts get placeholder images and no retrieved examples.
	var (
		images   usecase.ImageGenerator
		embedder usecase.Embedder
	)
	gemini, err := service.NewGeminiService(ctx, config.LoadGeminiConfig(), log.WithField("component", "gemini"))
	if err != nil {
		log.WithError(err).Warn("gemini disabled")
	} else {
		images, embedder = gemini, gemini
	}

	var uploader usecase.ImageUploader
	if storageConfig := config.LoadStorageConfig(); storageConfig.Enabled() {
		minioClient, err := storage.NewMinIOClient(ctx, storageConfig)
		if err != nil {
			log.WithError(err).Fatal("could not connect to object storage")
		}
		uploader = minioClient
	}

	checker := quality.NewChecker(openRouter, voice, policy, log.WithField("component", "quality"))
	engine := decision.NewEngine(checker, postRepo, policy, log.WithField("component", "decision"))

	generation := usecase.NewGenerationUsecase(postRepo, openRouter, images, embedder, uploader, voice, appConfig.ImageDir, log.WithField("component", "generation"))
	automation := usecase.NewAutomationUsecase(postRepo, checkRepo, publishLogRepo, engine, publisher, log.WithField("component", "automation"))
	review := usecase.NewReviewUsecase(postRepo, checkRepo, feedbackRepo, metricsRepo, log.WithField("component", "review"))

	handler.NewPostHandler(generation, automation, review).RegisterRoutes(app)

	// Monitor goroutine count
	go func() {
		ticker := time.NewTicker(1 * time.Minute)
		defer ticker.Stop()

		for range ticker.C {
			log.WithField("goroutines", runtime.NumGoroutine()).Debug("runtime stats")
		}
	}()

	log.WithField("port", appConfig.Port).Info("server running")
	if err := app.Listen(appConfig.Port); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}

func ConnectDB(log logging.Logger) *gorm.DB {
	dbConfig := config.LoadDBConfig()
	appConfig := config.LoadAppConfig()

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		dbConfig.Host,
		dbConfig.User,
		dbConfig.Password,
		dbConfig.Name,
		dbConfig.Port,
		dbConfig.SSLMode,
		dbConfig.TimeZone,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.WithError(err).Fatal("could not connect to database")
	}
	pgDB, err := db.DB()
	if err != nil {
		log.WithError(err).Fatal("could not get database instance")
	}
	if !appConfig.IsProduction() {
		pgDB.SetMaxIdleConns(5)
		pgDB.SetMaxOpenConns(10)
		pgDB.SetConnMaxLifetime(30 * time.Minute)
	} else {
		pgDB.SetMaxIdleConns(20)
		pgDB.SetMaxOpenConns(200)
		pgDB.SetConnMaxLifetime(time.Hour)
	}

	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS vector").Error; err != nil {
		log.WithError(err).Warn("could not enable pgvector extension")
	}
	err = db.AutoMigrate(
		&model.Post{},
		&model.QualityCheck{},
		&model.PerformanceMetric{},
		&model.PublishingLog{},
		&model.PostFeedback{},
	)
	if err != nil {
		log.WithError(err).Fatal("migration failed")
	}
	return db
}
