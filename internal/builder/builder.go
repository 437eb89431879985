package builder

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lexyai/drafter/internal/api"
	contractapi "github.com/lexyai/drafter/internal/api/contract"
	"github.com/lexyai/drafter/internal/config"
	"github.com/lexyai/drafter/internal/integration/callback"
	"github.com/lexyai/drafter/internal/integration/llm"
	"github.com/lexyai/drafter/internal/pkg/validator"
	"github.com/lexyai/drafter/internal/repository"
	"github.com/lexyai/drafter/internal/usecase/contract"
	"github.com/lexyai/drafter/internal/usecase/precedent"
	"go.uber.org/zap"
)

func Build() (*App, error) {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := setupLogger(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}

	logger.Info("Building application",
		zap.String("environment", cfg.Environment),
		zap.String("server_addr", cfg.ServerAddr),
		zap.String("llm_provider", cfg.LLMConnectorCfg.Provider),
		zap.Bool("mocks", cfg.EnableMocks),
	)

	// Database is optional
	var db *pgxpool.Pool
	if cfg.HasDatabase() {
		db, err = openCatalog(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
	}

	lookup, purgeSource, err := setupLookup(cfg, db, logger)
	if err != nil {
		closePool(db)
		return nil, fmt.Errorf("setup precedent lookup: %w", err)
	}

	// Initialize connectors
	completion, err := llm.NewConnector(ctx, cfg.LLMConnectorCfg, cfg.EnableMocks, logger)
	if err != nil {
		closePool(db)
		return nil, fmt.Errorf("setup completion connector: %w", err)
	}
	callbackConnector := callback.NewConnector(cfg.CallbackConnectorCfg, logger)

	// Initialize repositories and use cases
	progressRepo := repository.NewProgressMemory(cfg.ProgressTTL)
	resolver := precedent.NewResolver(lookup,
		precedent.WithCache(cfg.PrecedentCfg.LookupCacheSize, cfg.PrecedentCfg.LookupCacheTTL),
	)

	reload := func() {
		resolver.Invalidate()
		if purgeSource != nil {
			purgeSource()
		}
	}

	contractUC := contract.NewUsecase(
		completion,
		resolver,
		progressRepo,
		callbackConnector,
		cfg.DraftCfg,
		cfg.LLMConnectorCfg,
		logger,
	)
	logger.Info("Use cases initialized")

	// Setup API handlers
	requestValidator := validator.NewValidator(cfg.FileUploadCfg)
	contractHandler := contractapi.NewHandler(
		contractUC,
		requestValidator,
		cfg.PrecedentCfg.MaxSections,
		cfg.ProgressStreamInterval,
	)

	router := api.SetupRouter(contractHandler, cfg.RequestTimeout, logger)
	logger.Info("HTTP router configured")

	server := &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           router,
		ReadHeaderTimeout: 15 * time.Second,
		ReadTimeout:       time.Minute,
		// Synchronous generation may take up to the request timeout
		WriteTimeout: cfg.RequestTimeout + 30*time.Second,
		IdleTimeout:  2 * time.Minute,
	}

	logger.Info("Application built successfully",
		zap.String("environment", cfg.Environment),
	)

	return &App{
		server:          server,
		db:              db,
		background:      contractUC,
		reload:          reload,
		shutdownTimeout: cfg.ShutdownTimeout,
		logger:          logger,
	}, nil
}

// BuildCatalog connects to the configured database for precedent ingestion.
// The returned func releases the pool.
func BuildCatalog(ctx context.Context, environment string) (*repository.PrecedentPostgres, *zap.Logger, func(), error) {
	cfg, err := config.LoadCatalog(environment)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := setupLogger(cfg.LogLevel)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("setup logger: %w", err)
	}

	db, err := openCatalog(ctx, cfg, logger)
	if err != nil {
		return nil, nil, nil, err
	}

	release := func() {
		db.Close()
		_ = logger.Sync()
	}
	return repository.NewPrecedentPostgres(db, cfg.PrecedentCfg.MaxSections), logger, release, nil
}

// openCatalog connects to the database and applies migrations
func openCatalog(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*pgxpool.Pool, error) {
	db, err := setupDatabase(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("setup database: %w", err)
	}

	logger.Info("Running database migrations")
	if err := repository.RunMigrations(cfg.MigrationsSource, cfg.DatabaseURL); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("Database migrations completed successfully")

	return db, nil
}

func closePool(db *pgxpool.Pool) {
	if db != nil {
		db.Close()
	}
}
