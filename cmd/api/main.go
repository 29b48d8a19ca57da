package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	pkgvalidator "github.com/cirrusops/conversation-miner/pkg/validator"

	"github.com/cirrusops/conversation-miner/internal/adapter/handler"
	"github.com/cirrusops/conversation-miner/internal/adapter/repository"
	"github.com/cirrusops/conversation-miner/internal/domain/entities"
	"github.com/cirrusops/conversation-miner/internal/infrastructure/cache"
	"github.com/cirrusops/conversation-miner/internal/infrastructure/database"
	"github.com/cirrusops/conversation-miner/internal/infrastructure/external/assemblyai"
	"github.com/cirrusops/conversation-miner/internal/infrastructure/external/gong"
	"github.com/cirrusops/conversation-miner/internal/infrastructure/external/platform"
	"github.com/cirrusops/conversation-miner/internal/infrastructure/external/zoom"
	httpmw "github.com/cirrusops/conversation-miner/internal/infrastructure/http/middleware"
	"github.com/cirrusops/conversation-miner/internal/infrastructure/storage"
	"github.com/cirrusops/conversation-miner/internal/usecase/insights"
	"github.com/cirrusops/conversation-miner/internal/usecase/meeting"
	"github.com/cirrusops/conversation-miner/internal/usecase/mining"
	"github.com/cirrusops/conversation-miner/internal/usecase/profile"
	"github.com/cirrusops/conversation-miner/internal/usecase/syncer"
	pkgai "github.com/cirrusops/conversation-miner/pkg/ai"
	"github.com/cirrusops/conversation-miner/pkg/config"
	"github.com/cirrusops/conversation-miner/pkg/jwt"
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
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
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

	if err := database.RunMigrations(db, "migrations"); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize object storage
	log.Println("🗄️  Connecting to object storage...")
	objectStore, err := storage.NewMinIOClient(&cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to initialize object storage: %v", err)
	}

	// Initialize user directory cache: Redis when configured, in-process
	// memory store otherwise.
	var directory cache.Store
	if cfg.Redis.Addr != "" {
		log.Println("📦 Connecting to Redis...")
		redisStore, err := cache.NewRedisStore(&cfg.Redis)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisStore.Close()
		directory = redisStore
	} else {
		log.Println("📦 Redis not configured, using in-process cache")
		directory = cache.NewMemoryStore()
	}

	// Initialize platform clients
	log.Println("🔌 Initializing platform clients...")
	clients := map[entities.Platform]platform.Client{}
	if cfg.Gong.AccessKey != "" {
		clients[entities.PlatformGong] = gong.NewClient(&cfg.Gong, directory, cfg.Sync.UserCacheTTL)
		log.Println("✅ Gong client configured")
	}
	if cfg.Zoom.AccountID != "" {
		clients[entities.PlatformZoom] = zoom.NewClient(&cfg.Zoom, directory, cfg.Sync.UserCacheTTL)
		log.Println("✅ Zoom client configured")
	}
	if len(clients) == 0 {
		log.Println("⚠️  No platform credentials configured; sync triggers will be rejected")
	}

	// Initialize fallback transcription
	var transcriber syncer.Transcriber
	if cfg.Assembly.Enabled {
		log.Println("🎙️  Fallback transcription enabled")
		transcriber = assemblyai.NewClient(&cfg.Assembly)
	}

	// Initialize LLM client
	log.Println("🤖 Initializing LLM client...")
	modelClient := pkgai.NewAnthropicClient(&cfg.Anthropic)

	// Initialize repositories
	log.Println("⚙️  Initializing repositories...")
	meetingRepo := repository.NewMeetingRepository(db)
	participantRepo := repository.NewParticipantRepository(db)
	transcriptRepo := repository.NewTranscriptRepository(db)
	mediaRepo := repository.NewMediaFileRepository(db)
	syncStateRepo := repository.NewSyncStateRepository(db)
	jobRepo := repository.NewPipelineJobRepository(db)
	profileRepo := repository.NewMiningProfileRepository(db)
	storyRepo := repository.NewExtractedStoryRepository(db)
	contentRepo := repository.NewGeneratedContentRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)

	// Initialize usecases
	log.Println("✨ Initializing services...")
	syncService := syncer.NewService(
		clients,
		meetingRepo,
		participantRepo,
		transcriptRepo,
		mediaRepo,
		syncStateRepo,
		jobRepo,
		objectStore,
		transcriber,
		cfg,
		logger,
	)
	miningService := mining.NewService(
		profileRepo,
		meetingRepo,
		transcriptRepo,
		participantRepo,
		storyRepo,
		contentRepo,
		modelClient,
		cfg,
		logger,
	)
	profileService := profile.NewService(profileRepo, logger)
	meetingService := meeting.NewService(meetingRepo, participantRepo, transcriptRepo, mediaRepo, objectStore, logger)
	insightsService := insights.NewService(analyticsRepo)

	// Initialize JWT manager and org middleware
	jwtManager := jwt.NewManager(cfg.Auth.JWTSecret, cfg.Auth.JWTExpiry)
	orgAuth := httpmw.OrgAuth(jwtManager, &cfg.Auth)

	// Initialize handlers
	log.Println("🛣️  Setting up routes...")
	router := handler.NewRouter(
		cfg,
		handler.NewSync(syncService, logger),
		handler.NewMining(miningService, logger),
		handler.NewProfile(profileService, logger),
		handler.NewMeeting(meetingService, logger),
		handler.NewInsights(insightsService, logger),
		handler.NewZoomWebhook(syncService, cfg.Zoom.WebhookSecret, logger),
		orgAuth,
	)
	router.Setup(e)

	// Start sync worker pool
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()
	if err := syncService.StartWorkerPool(workerCtx, cfg.Worker.Slots); err != nil {
		log.Fatalf("Failed to start worker pool: %v", err)
	}

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

	if err := syncService.StopWorkerPool(); err != nil {
		log.Printf("⚠️  Worker pool shutdown: %v", err)
	}
	stopWorkers()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %v", err)
	}

	log.Println("✅ Server stopped gracefully")
}
