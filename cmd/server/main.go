package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	httpAdapter "github.com/iho/passbook/internal/adapter/http"
	"github.com/iho/passbook/internal/adapter/http/handler"
	"github.com/iho/passbook/internal/adapter/http/middleware"
	postgresRepo "github.com/iho/passbook/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/passbook/internal/adapter/repository/redis"
	"github.com/iho/passbook/internal/infrastructure/config"
	"github.com/iho/passbook/internal/infrastructure/eventpublisher"
	"github.com/iho/passbook/internal/infrastructure/logger"
	"github.com/iho/passbook/internal/infrastructure/logging"
	"github.com/iho/passbook/internal/infrastructure/metrics"
	"github.com/iho/passbook/internal/infrastructure/postgres"
	redisInfra "github.com/iho/passbook/internal/infrastructure/redis"
	"github.com/iho/passbook/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Setup loggers: zerolog for HTTP and process lifecycle, slog for
	// the background workers that carry it through usecases.
	zlog := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	log.Logger = zlog

	appLogger := logging.New(logging.ParseLevel(cfg.LogLevel), cfg.LogFormat)

	ctx := context.Background()

	// Connect to PostgreSQL
	pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
		DatabaseURL: cfg.DatabaseURL,
		MaxConns:    cfg.DatabaseMaxConns,
		MinConns:    cfg.DatabaseMinConns,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	// Run migrations
	if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Connect to Redis. The service degrades gracefully without it:
	// no response caching and no idempotency replay.
	var (
		idempotencyStore usecase.IdempotencyStore
		cache            usecase.Cache
	)

	redisClient, err := redisInfra.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, running without cache and idempotency")
		redisClient = nil
	} else {
		defer redisClient.Close()
		idempotencyStore = redisRepo.NewIdempotencyStore(redisClient)
		cache = redisRepo.NewCache(redisClient)
		log.Info().Msg("connected to redis")
	}

	appMetrics := metrics.New()

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	customerRepo := postgresRepo.NewCustomerRepository(pool)
	operationRepo := postgresRepo.NewOperationRepository(pool)
	transferRepo := postgresRepo.NewTransferRepository(pool)
	ledgerRepo := postgresRepo.NewLedgerRepository(pool)
	outboxRepo := postgresRepo.NewOutboxRepository(pool)
	idGen := postgresRepo.NewULIDGenerator()
	retrier := postgresRepo.NewRetrier()

	// Initialize use cases
	customerUC := usecase.NewCustomerUseCase(txManager, customerRepo, outboxRepo, idGen)
	operationUC := usecase.NewOperationUseCase(txManager, customerRepo, operationRepo, outboxRepo, idGen, retrier)
	transferUC := usecase.NewTransferUseCase(txManager, customerRepo, operationRepo, transferRepo, outboxRepo, idGen, retrier)
	ledgerUC := usecase.NewLedgerUseCase(ledgerRepo, cache)
	recoveryUC := usecase.NewRecoveryUseCase(transferRepo, transferUC, appLogger.Logger)

	// Initialize handlers
	customerHandler := handler.NewCustomerHandler(customerUC)
	operationHandler := handler.NewOperationHandler(operationUC)
	transferHandler := handler.NewTransferHandler(transferUC)
	ledgerHandler := handler.NewLedgerHandler(ledgerUC)
	healthHandler := handler.NewHealthHandler(pool, redisClient)

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		CustomerHandler:  customerHandler,
		OperationHandler: operationHandler,
		TransferHandler:  transferHandler,
		LedgerHandler:    ledgerHandler,
		HealthHandler:    healthHandler,
		IdempotencyStore: idempotencyStore,
		IdempotencyTTL:   cfg.IdempotencyTTL,
		RateLimiter:      middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst),
		Logger:           &zlog,
	})

	// Background workers
	workerCtx, stopWorkers := context.WithCancel(ctx)
	defer stopWorkers()

	publisher := eventpublisher.NewEventPublisher(eventpublisher.Config{
		OutboxRepo: outboxRepo,
		Publisher:  eventpublisher.NewLogPublisher(appLogger.Logger),
		Logger:     appLogger.Logger,
		Metrics:    appMetrics,
		BatchSize:  cfg.OutboxBatchSize,
		Interval:   cfg.OutboxInterval,
	})

	go func() {
		if err := publisher.Start(workerCtx); err != nil && workerCtx.Err() == nil {
			log.Error().Err(err).Msg("event publisher stopped")
		}
	}()

	go func() {
		if err := recoveryUC.Run(workerCtx, cfg.SweepInterval, cfg.SweepCutoff, cfg.SweepBatchSize); err != nil && workerCtx.Err() == nil {
			log.Error().Err(err).Msg("recovery sweep stopped")
		}
	}()

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")
	stopWorkers()

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
