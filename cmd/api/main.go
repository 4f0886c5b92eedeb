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

	pkgvalidator "github.com/interview-assistant-team/interview-assistant/pkg/validator"

	"github.com/interview-assistant-team/interview-assistant/internal/adapter/handler"
	"github.com/interview-assistant-team/interview-assistant/internal/adapter/repository"
	"github.com/interview-assistant-team/interview-assistant/internal/infrastructure/cache"
	"github.com/interview-assistant-team/interview-assistant/internal/infrastructure/database"
	"github.com/interview-assistant-team/interview-assistant/internal/infrastructure/external/detector"
	"github.com/interview-assistant-team/interview-assistant/internal/infrastructure/external/transcriber"
	"github.com/interview-assistant-team/interview-assistant/internal/infrastructure/storage"
	assessmentUsecase "github.com/interview-assistant-team/interview-assistant/internal/usecase/assessment"
	"github.com/interview-assistant-team/interview-assistant/internal/usecase/live"
	pkgai "github.com/interview-assistant-team/interview-assistant/pkg/ai"
	"github.com/interview-assistant-team/interview-assistant/pkg/config"
)

// @title           Interview Assistant API
// @version         1.0
// @description     API for the interview assistant: live emotion analysis over WebSocket and post-session candidate assessment

// @host      localhost:8080
// @BasePath  /v1

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
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))

	// Initialize dependencies
	log.Println("🔧 Initializing dependencies...")

	// Initialize Database
	log.Println("📦 Connecting to database...")
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.CloseDB(db)

	// Run migrations only when explicitly enabled in config.
	// Production deployments should manage schema via sql-migrate.
	if cfg.Database.AutoMigrate {
		if cfg.Server.Environment == "production" {
			log.Fatalf("AutoMigrate is enabled in production. Disable DB_AUTO_MIGRATE or manage schema with sql-migrate.")
		}
		log.Println("🔄 Applying migrations (development only) ...")
		if err := database.AutoMigrate(db); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
	} else {
		log.Println("🔄 Skipping migrations; use sql-migrate for schema migrations in CI/CD/production")
	}

	// Initialize Redis
	log.Println("📦 Connecting to Redis...")
	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	// Initialize object storage
	log.Println("🗄️  Connecting to object storage...")
	minioClient, err := storage.NewMinIOClient(&cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to connect to MinIO: %v", err)
	}

	// Initialize logger
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize repositories
	log.Println("⚙️  Initializing repositories...")
	interviewRepo := repository.NewInterviewRepository(db)
	emotionRepo := repository.NewEmotionRepository(db)
	transcriptRepo := repository.NewTranscriptRepository(db)
	indicatorRepo := repository.NewIndicatorRepository(db)
	assessmentRepo := repository.NewAssessmentRepository(db)
	jobRepo := repository.NewAssessmentJobRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)

	// Initialize external clients
	log.Println("🤖 Initializing detector and embedding clients...")
	detectorClient := detector.NewClientFromConfig(&cfg.Detector)
	if cfg.Detector.UseMock {
		log.Println("⚠️  Detectors running in MOCK mode (no real model servers needed)")
	}
	embeddingClient := pkgai.NewEmbeddingClient(&cfg.Embedding)
	transcriberClient := transcriber.NewClient(cfg.Assembly.APIKey, cfg.Assembly.UseMock, logger)

	// Initialize snapshot cache
	snapshotStore := cache.NewSnapshotStore(redisClient, cfg.Live.SnapshotTTL)

	// Initialize live session manager
	log.Println("🎬 Initializing live session manager...")
	sessionManager := live.NewManager(
		interviewRepo,
		emotionRepo,
		jobRepo,
		detectorClient,
		minioClient,
		snapshotStore,
		cfg.Live,
		logger,
	)

	// Initialize assessment pipeline
	log.Println("📊 Initializing assessment pipeline...")
	weightSvc := assessmentUsecase.NewWeightService(settingsRepo, logger)
	{
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := weightSvc.Load(ctx); err != nil {
			log.Printf("⚠️  Using default scoring weights: %v", err)
		}
		cancel()
	}
	extractor := assessmentUsecase.NewExtractor(embeddingClient, cfg.Scoring, logger)
	assessmentService := assessmentUsecase.NewService(
		jobRepo,
		assessmentRepo,
		transcriptRepo,
		indicatorRepo,
		interviewRepo,
		weightSvc,
		extractor,
		transcriberClient,
		minioClient,
		cfg,
		logger,
	)

	// Start background workers
	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()
	if err := assessmentService.StartWorkerPool(workerCtx, cfg.Scoring.Workers); err != nil {
		log.Fatalf("Failed to start worker pool: %v", err)
	}

	// Initialize handlers
	log.Println("🚀 Initializing handlers...")
	interviewHandler := handler.NewInterviewHandler(interviewRepo, emotionRepo, transcriptRepo, snapshotStore, minioClient, logger)
	indicatorHandler := handler.NewIndicatorHandler(indicatorRepo, interviewRepo, logger)
	assessmentHandler := handler.NewAssessmentHandler(assessmentService, weightSvc, logger)
	liveHandler := handler.NewLiveHandler(sessionManager, logger)

	// Setup router with handlers
	log.Println("🛣️  Setting up routes...")
	router := handler.NewRouter(cfg, interviewHandler, indicatorHandler, assessmentHandler, liveHandler)
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

	// Finalize any sessions still open so their emotion logs persist
	sessionManager.Shutdown(ctx)

	if err := assessmentService.StopWorkerPool(); err != nil {
		log.Printf("⚠️  Worker pool shutdown: %v", err)
	}

	if err := e.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %v", err)
	}

	log.Println("✅ Server stopped gracefully")
}
