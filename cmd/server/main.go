package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	httpAdapter "github.com/coinvest/coinvest/internal/adapter/http"
	"github.com/coinvest/coinvest/internal/adapter/http/handler"
	postgresRepo "github.com/coinvest/coinvest/internal/adapter/repository/postgres"
	redisRepo "github.com/coinvest/coinvest/internal/adapter/repository/redis"
	"github.com/coinvest/coinvest/internal/infrastructure/auth"
	"github.com/coinvest/coinvest/internal/infrastructure/config"
	"github.com/coinvest/coinvest/internal/infrastructure/metrics"
	"github.com/coinvest/coinvest/internal/infrastructure/postgres"
	"github.com/coinvest/coinvest/internal/infrastructure/redis"
	"github.com/coinvest/coinvest/internal/usecase"
)

func main() {
	// Setup logger
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Setup log level
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	ctx := context.Background()

	// Connect to PostgreSQL
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	// Run migrations
	if err := postgres.RunMigrations(cfg.DatabaseURL, "migrations"); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	userRepo := postgresRepo.NewUserRepository(pool)
	planRepo := postgresRepo.NewPlanRepository(pool)
	walletRepo := postgresRepo.NewWalletRepository(pool)
	txnRepo := postgresRepo.NewTransactionRepository(pool)
	notifRepo := postgresRepo.NewNotificationRepository(pool)
	auditRepo := postgresRepo.NewAuditRepository(pool)
	idGen := postgresRepo.NewULIDGenerator()
	retrier := postgresRepo.NewRetrier()
	cache := redisRepo.NewCache(redisClient)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)

	appMetrics := metrics.New()

	// Initialize use cases
	userUC := usecase.NewUserUseCase(userRepo, auditRepo, idGen)
	planUC := usecase.NewPlanUseCase(planRepo, auditRepo, idGen, cache)
	walletUC := usecase.NewWalletUseCase(walletRepo, auditRepo, idGen)
	txnUC := usecase.NewTransactionUseCase(
		txManager, txnRepo, userRepo, planRepo, walletRepo,
		notifRepo, auditRepo, idGen, retrier, appMetrics,
	)
	notifUC := usecase.NewNotificationUseCase(notifRepo)

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(userUC, jwtManager)
	userHandler := handler.NewUserHandler(userUC)
	planHandler := handler.NewPlanHandler(planUC)
	walletHandler := handler.NewWalletHandler(walletUC)
	txnHandler := handler.NewTransactionHandler(txnUC)
	notifHandler := handler.NewNotificationHandler(notifUC)
	healthHandler := handler.NewHealthHandler(pool, redisClient)

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AuthHandler:         authHandler,
		UserHandler:         userHandler,
		PlanHandler:         planHandler,
		WalletHandler:       walletHandler,
		TransactionHandler:  txnHandler,
		NotificationHandler: notifHandler,
		HealthHandler:       healthHandler,
		JWTManager:          jwtManager,
		IdempotencyStore:    idempotencyStore,
		Logger:              log.Logger,
		AuthRateLimit:       cfg.AuthRateLimit,
		AuthRateBurst:       cfg.AuthRateBurst,
	})

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

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
