package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"

	"github.com/blociq/blociq-engine/pkg/config"
	"github.com/blociq/blociq-engine/pkg/database"
	"github.com/blociq/blociq-engine/pkg/handlers"
	"github.com/blociq/blociq-engine/pkg/llm"
	"github.com/blociq/blociq-engine/pkg/logging"
	"github.com/blociq/blociq-engine/pkg/middleware"
	"github.com/blociq/blociq-engine/pkg/prompts"
	"github.com/blociq/blociq-engine/pkg/repositories"
	"github.com/blociq/blociq-engine/pkg/retry"
	"github.com/blociq/blociq-engine/pkg/services"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	var logger *zap.Logger
	if cfg.Env == "local" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Configuration loaded",
		zap.String("environment", cfg.Env),
		zap.String("base_url", cfg.BaseURL),
		zap.String("database", logging.SanitizeConnectionString(cfg.Database.ConnectionString())),
		zap.String("ai_provider", cfg.AI.Provider),
		zap.String("ai_model", cfg.AI.Model))

	agencyID, err := uuid.Parse(cfg.AgencyID)
	if err != nil {
		logger.Fatal("Invalid agency id", zap.Error(err))
	}

	ctx := context.Background()

	db, err := database.NewConnection(ctx, &database.Config{
		URL:            cfg.Database.ConnectionString(),
		MaxConnections: cfg.Database.MaxConnections,
	})
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	migrateDB, err := sql.Open("pgx", cfg.Database.ConnectionString())
	if err != nil {
		logger.Fatal("Failed to open migration connection", zap.Error(err))
	}
	if err := database.RunMigrations(migrateDB, cfg.Database.MigrationsPath, logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}
	_ = migrateDB.Close()

	client, err := llm.NewFromConfig(&cfg.AI, logger)
	if err != nil {
		logger.Fatal("Failed to create LLM client", zap.Error(err))
	}

	store, err := prompts.NewStore()
	if err != nil {
		logger.Fatal("Failed to load prompt policies", zap.Error(err))
	}

	retryConfig := retry.DefaultConfig()
	retryConfig.MaxRetries = cfg.AI.MaxRetries

	// Repositories
	userRepo := repositories.NewUserRepository(db)
	buildingRepo := repositories.NewBuildingRepository(db)
	unitRepo := repositories.NewUnitRepository(db)
	leaseholderRepo := repositories.NewLeaseholderRepository(db)
	complianceRepo := repositories.NewComplianceRepository(db)
	emailRepo := repositories.NewEmailRepository(db)
	aiLogRepo := repositories.NewAILogRepository(db)
	communicationRepo := repositories.NewCommunicationRepository(db)

	// Services
	userService := services.NewUserService(userRepo, logger)
	buildingService := services.NewBuildingService(buildingRepo, logger)
	askService := services.NewAskService(
		buildingRepo, unitRepo, leaseholderRepo,
		complianceRepo, communicationRepo, aiLogRepo,
		store, client, retryConfig, logger)
	inboxService := services.NewInboxService(
		emailRepo, buildingRepo,
		complianceRepo, communicationRepo, aiLogRepo,
		store, client, retryConfig, logger)
	documentService := services.NewDocumentService(aiLogRepo, client, retryConfig, logger)

	// Handlers
	mux := http.NewServeMux()
	handlers.NewHealthHandler(cfg, db, logger).RegisterRoutes(mux)
	handlers.NewOutlookHandler(askService, userService, agencyID, logger).RegisterRoutes(mux)
	handlers.NewAskHandler(askService, logger).RegisterRoutes(mux)
	handlers.NewBuildingHandler(buildingService, agencyID, logger).RegisterRoutes(mux)
	handlers.NewGenerateHandler(askService, inboxService, userService, agencyID, logger).RegisterRoutes(mux)
	handlers.NewEmailHandler(inboxService, agencyID, logger).RegisterRoutes(mux)
	handlers.NewDocumentHandler(documentService, userService, agencyID, logger).RegisterRoutes(mux)

	var handler http.Handler = mux
	handler = middleware.CORS(cfg.AllowedOrigins)(handler)
	handler = middleware.RequestLogger(logger)(handler)

	server := &http.Server{
		Addr:    cfg.BindAddr + ":" + cfg.Port,
		Handler: handler,
	}

	go func() {
		logger.Info("Starting blociq-engine",
			zap.String("addr", server.Addr),
			zap.String("version", cfg.Version))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown failed", zap.Error(err))
	}
}
