package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/eventcert/api/internal/client"
	"github.com/eventcert/api/internal/config"
	"github.com/eventcert/api/internal/handler"
	"github.com/eventcert/api/internal/middleware"
	"github.com/eventcert/api/internal/service"
	"github.com/eventcert/api/internal/store"
	"github.com/eventcert/api/internal/worker"
	"github.com/eventcert/api/pkg/response"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()

	// Connect to Postgres and apply migrations
	pool, err := store.Connect(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	if err := store.RunMigrations(cfg.Database.URL, cfg.Database.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	dataStore := store.NewPostgresStore(pool)

	// Initialize Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Printf("Warning: Redis not available: %v", err)
	}

	// Initialize Asynq client
	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer asynqClient.Close()

	// Initialize validator
	validate := validator.New()

	// Initialize external clients
	sheetsClient, err := client.NewSheetsClient(ctx, &cfg.Google)
	if err != nil {
		log.Fatalf("Failed to initialize Sheets client: %v", err)
	}
	driveClient, err := client.NewDriveClient(ctx, &cfg.Google)
	if err != nil {
		log.Fatalf("Failed to initialize Drive client: %v", err)
	}
	mailClient, err := client.NewSMTPClient(&cfg.SMTP)
	if err != nil {
		log.Fatalf("Failed to initialize SMTP client: %v", err)
	}

	// Initialize services
	svgService := service.NewSVGService()
	pdfService := service.NewPDFService()
	authService := service.NewAuthService(dataStore, cfg.JWT.Secret, cfg.JWT.Expiration)
	eventService := service.NewEventService(dataStore)
	templateService := service.NewTemplateService(dataStore, svgService)
	generationService := service.NewGenerationService(dataStore, asynqClient)
	assetService := service.NewAssetService(dataStore, svgService, pdfService, mailClient)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService, validate)
	eventHandler := handler.NewEventHandler(eventService, validate)
	templateHandler := handler.NewTemplateHandler(templateService, validate)
	generationHandler := handler.NewGenerationHandler(generationService, validate)
	assetHandler := handler.NewAssetHandler(assetService)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)
	rateLimiter := middleware.NewRateLimiter(redisClient)

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
	})

	// Global middleware
	app.Use(recover.New())
	isDebug := strings.EqualFold(cfg.Server.LogLevel, "debug")
	logFormat := "[${time}] ${status} - ${latency} ${method} ${path}\n"
	if isDebug {
		logFormat = "[${time}] ${status} - ${latency} ${method} ${path} ${queryParams} ${body}\n"
		log.Println("Debug logging enabled")
	}
	app.Use(logger.New(logger.Config{
		Format: logFormat,
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
			"services": fiber.Map{
				"database": dataStore.Ping(c.Context()) == nil,
				"redis":    redisClient.Ping(c.Context()).Err() == nil,
			},
		})
	})

	// API routes
	api := app.Group("/api")
	api.Post("/auth/login", authHandler.Login)

	authed := api.Use(authMiddleware.Authenticate())

	events := authed.Group("/events")
	events.Post("", eventHandler.Create)
	events.Get("", eventHandler.List)
	events.Get("/:id", eventHandler.Get)
	events.Put("/:id", eventHandler.Update)
	events.Delete("/:id", eventHandler.Delete)

	templates := authed.Group("/templates")
	templates.Post("", templateHandler.Create)
	templates.Get("", templateHandler.List)
	templates.Get("/:id", templateHandler.Get)
	templates.Put("/:id", templateHandler.Update)
	templates.Delete("/:id", templateHandler.Delete)

	generation := authed.Group("/generation-log")
	generation.Post("", rateLimiter.GenerationLimit(cfg.RateLimit.GenerationPerHour), generationHandler.Trigger)
	generation.Get("", generationHandler.List)
	generation.Get("/:id", generationHandler.Get)
	generation.Get("/:id/status", generationHandler.Status)
	generation.Get("/:id/assets", generationHandler.Assets)

	assets := authed.Group("/generated-assets")
	assets.Get("", assetHandler.List)
	assets.Get("/:id", assetHandler.Get)
	assets.Post("/:id/resend-email", assetHandler.ResendEmail)

	// Start Asynq worker server
	generationWorker := worker.NewGenerationWorker(dataStore, sheetsClient, driveClient, mailClient, svgService, pdfService)
	go startWorkerServer(cfg, generationWorker)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("Shutting down server...")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	// Start server
	addr := ":" + cfg.Server.Port
	log.Printf("Server starting on %s", addr)
	if err := app.Listen(addr); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func startWorkerServer(cfg *config.Config, generationWorker *worker.GenerationWorker) {
	asynqLogLevel := asynq.InfoLevel
	if strings.EqualFold(cfg.Server.LogLevel, "debug") {
		asynqLogLevel = asynq.DebugLevel
	} else if strings.EqualFold(cfg.Server.LogLevel, "warn") {
		asynqLogLevel = asynq.WarnLevel
	} else if strings.EqualFold(cfg.Server.LogLevel, "error") {
		asynqLogLevel = asynq.ErrorLevel
	}

	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		},
		asynq.Config{
			Concurrency: 4,
			Queues: map[string]int{
				"generation": 1,
			},
			LogLevel: asynqLogLevel,
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(service.TaskTypeGeneration, generationWorker.ProcessTask)

	if err := srv.Run(mux); err != nil {
		log.Printf("Asynq worker error: %v", err)
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(response.ErrorResponse{
		Error: response.ErrorDetail{
			Code:    response.CodeServiceError,
			Message: message,
		},
	})
}
