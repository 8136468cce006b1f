package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	pkgvalidator "github.com/johnquangdev/meeting-tasks/pkg/validator"

	"github.com/johnquangdev/meeting-tasks/internal/adapter/handler"
	"github.com/johnquangdev/meeting-tasks/internal/adapter/repository"
	"github.com/johnquangdev/meeting-tasks/internal/infrastructure/cache"
	"github.com/johnquangdev/meeting-tasks/internal/infrastructure/database"
	"github.com/johnquangdev/meeting-tasks/internal/infrastructure/external/vexa"
	"github.com/johnquangdev/meeting-tasks/internal/infrastructure/storage"
	botUsecase "github.com/johnquangdev/meeting-tasks/internal/usecase/bot"
	exportUsecase "github.com/johnquangdev/meeting-tasks/internal/usecase/export"
	extractionUsecase "github.com/johnquangdev/meeting-tasks/internal/usecase/extraction"
	modificationUsecase "github.com/johnquangdev/meeting-tasks/internal/usecase/modification"
	tasksUsecase "github.com/johnquangdev/meeting-tasks/internal/usecase/tasks"
	pkgai "github.com/johnquangdev/meeting-tasks/pkg/ai"
	"github.com/johnquangdev/meeting-tasks/pkg/config"
	"github.com/johnquangdev/meeting-tasks/pkg/keylock"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize Echo instance
	e := echo.New()

	// Register validator for request validation
	e.Validator = pkgvalidator.New()

	// Configure Echo
	e.HideBanner = true
	e.HidePort = false

	// Custom logger format
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} | ${status} | ${method} ${uri} | ${latency_human}\n",
	}))

	// Recover from panics
	e.Use(middleware.Recover())

	// CORS middleware
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.Server.AllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))

	// Initialize dependencies
	log.Println("🔧 Initializing dependencies...")

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize Database
	log.Println("📦 Connecting to database...")
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.CloseDB(db)

	// Apply schema migrations only when explicitly enabled in config.
	// Production deployments should run sql-migrate from CI/CD instead.
	if cfg.Database.AutoMigrate {
		log.Println("🔄 Applying schema migrations...")
		if err := database.Migrate(db); err != nil {
			log.Fatalf("Failed to apply migrations: %v", err)
		}
	} else {
		log.Println("🔄 Skipping migrations; manage schema with sql-migrate in CI/CD")
	}

	// Initialize Redis
	log.Println("📦 Connecting to Redis...")
	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()
	transcriptCache := cache.NewTranscriptCache(redisClient)

	// Initialize artifact storage (optional)
	var extractionArtifacts extractionUsecase.ArtifactStore
	var modificationArtifacts modificationUsecase.ArtifactStore
	if cfg.Storage.Enabled {
		log.Println("🗄️  Connecting to artifact storage...")
		minioClient, err := storage.NewMinIOClient(&cfg.Storage)
		if err != nil {
			log.Fatalf("Failed to connect to artifact storage: %v", err)
		}
		extractionArtifacts = minioClient
		modificationArtifacts = minioClient
	} else {
		log.Println("🗄️  Artifact storage disabled")
	}

	// Initialize repositories
	log.Println("⚙️  Initializing repositories...")
	meetingRepo := repository.NewMeetingRepository(db)
	transcriptRepo := repository.NewTranscriptRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	// Initialize recording agent client
	log.Println("🎙️  Initializing recording agent client...")
	agentClient := vexa.NewClient(&cfg.Vexa)
	if cfg.Vexa.UseMock {
		log.Println("⚠️  Recording agent running in MOCK mode (no real agent needed)")
	} else {
		log.Printf("✅ Recording agent: %s", cfg.Vexa.BaseURL)
	}

	// Initialize AI client
	log.Println("🤖 Initializing AI components...")
	groqClient := pkgai.NewGroqClient(&cfg.Groq)

	// Per-meeting write lock shared by every pipeline stage
	locks := keylock.New()

	// Initialize services
	log.Println("✨ Initializing services...")
	botService := botUsecase.NewService(meetingRepo, transcriptRepo, agentClient, transcriptCache, locks, cfg.Worker, cfg.Vexa.Timeout, logger)
	extractionService := extractionUsecase.NewService(meetingRepo, transcriptRepo, taskRepo, groqClient, extractionArtifacts, locks, cfg.Groq.Timeout, logger)
	modificationService := modificationUsecase.NewService(meetingRepo, transcriptRepo, taskRepo, groqClient, transcriptCache, modificationArtifacts, locks, cfg.Groq.Timeout, logger)
	taskService := tasksUsecase.NewService(meetingRepo, taskRepo, locks, logger)
	exportService := exportUsecase.NewService(meetingRepo, taskRepo, logger)

	// Initialize handlers
	log.Println("🚀 Initializing handlers...")
	meetingHandler := handler.NewMeetingHandler(botService, logger)
	transcriptHandler := handler.NewTranscriptHandler(botService, extractionService, logger)
	taskHandler := handler.NewTaskHandler(taskService, modificationService, logger)
	exportHandler := handler.NewExportHandler(exportService, logger)

	// Setup router with handlers
	log.Println("🛣️  Setting up routes...")
	router := handler.NewRouter(cfg, meetingHandler, transcriptHandler, taskHandler, exportHandler)
	router.Setup(e)

	// Start server
	go func() {
		addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
		log.Printf("🚀 Starting server on %s", addr)
		log.Printf("📝 Environment: %s", cfg.Server.Environment)
		log.Printf("🔗 Health check: http://%s/health", addr)

		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %v", err)
	}

	log.Println("✅ Server stopped gracefully")
}
