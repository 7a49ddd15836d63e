package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/iho/spendguard/internal/adapter/gateway"
	httpAdapter "github.com/iho/spendguard/internal/adapter/http"
	"github.com/iho/spendguard/internal/adapter/http/handler"
	"github.com/iho/spendguard/internal/adapter/http/middleware"
	postgresRepo "github.com/iho/spendguard/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/spendguard/internal/adapter/repository/redis"
	"github.com/iho/spendguard/internal/infrastructure/auth"
	"github.com/iho/spendguard/internal/infrastructure/config"
	"github.com/iho/spendguard/internal/infrastructure/eventpublisher"
	"github.com/iho/spendguard/internal/infrastructure/logger"
	"github.com/iho/spendguard/internal/infrastructure/logging"
	"github.com/iho/spendguard/internal/infrastructure/metrics"
	"github.com/iho/spendguard/internal/infrastructure/postgres"
	"github.com/iho/spendguard/internal/infrastructure/redis"
	"github.com/iho/spendguard/internal/usecase"
)

const migrationsPath = "migrations"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Setup logger
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx := context.Background()

	// Run migrations
	if err := postgres.RunMigrations(cfg.DatabaseURL, migrationsPath); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Connect to PostgreSQL
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	walletRepo := postgresRepo.NewWalletRepository(pool)
	entryRepo := postgresRepo.NewEntryRepository(pool)
	beneficiaryRepo := postgresRepo.NewBeneficiaryRepository(pool)
	outboxRepo := postgresRepo.NewOutboxRepository(pool)
	auditRepo := postgresRepo.NewAuditRepository(pool)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	idGen := postgresRepo.NewULIDGenerator()
	retrier := postgresRepo.NewRetrier()

	tokenGateway := selectGateway(cfg)

	m := metrics.New()

	// Initialize use cases
	engines := usecase.NewEngineCache(walletRepo, entryRepo, beneficiaryRepo, nil)

	walletUC := usecase.NewWalletUseCase(usecase.WalletUseCaseConfig{
		TxManager:     txManager,
		WalletRepo:    walletRepo,
		EntryRepo:     entryRepo,
		OutboxRepo:    outboxRepo,
		AuditRepo:     auditRepo,
		Gateway:       tokenGateway,
		Engines:       engines,
		IDGen:         idGen,
		Retrier:       retrier,
		Metrics:       m,
		DefaultWindow: cfg.DefaultWindow,
	})

	beneficiaryUC := usecase.NewBeneficiaryUseCase(usecase.BeneficiaryUseCaseConfig{
		TxManager:       txManager,
		BeneficiaryRepo: beneficiaryRepo,
		EntryRepo:       entryRepo,
		OutboxRepo:      outboxRepo,
		AuditRepo:       auditRepo,
		Engines:         engines,
		IDGen:           idGen,
		Retrier:         retrier,
		Metrics:         m,
		DefaultCooldown: cfg.DefaultCooldown,
	})

	// Initialize handlers
	walletHandler := handler.NewWalletHandler(walletUC)
	beneficiaryHandler := handler.NewBeneficiaryHandler(beneficiaryUC)
	healthHandler := handler.NewHealthHandler(pool, redisClient)

	routerCfg := httpAdapter.RouterConfig{
		WalletHandler:      walletHandler,
		BeneficiaryHandler: beneficiaryHandler,
		HealthHandler:      healthHandler,
		IdempotencyStore:   idempotencyStore,
		RequestLogger:      middleware.NewLoggingMiddleware(log.Logger),
	}

	if cfg.RateLimitRPS > 0 {
		routerCfg.RateLimiter = middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	}

	if cfg.AuthEnabled {
		if cfg.JWTSecret == "" {
			log.Fatal().Msg("AUTH_ENABLED requires JWT_SECRET")
		}
		routerCfg.JWTManager = auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)
		log.Info().Msg("authentication enabled")
	}

	router := httpAdapter.NewRouter(routerCfg)

	// Background workers
	workerCtx, stopWorkers := context.WithCancel(ctx)
	defer stopWorkers()

	publisherLog := logging.New(logging.ParseLevel(cfg.LogLevel), cfg.LogFormat)
	publisher := eventpublisher.NewEventPublisher(eventpublisher.Config{
		OutboxRepo: outboxRepo,
		Publisher:  eventpublisher.NewLogPublisher(publisherLog.Logger),
		Logger:     publisherLog.Logger,
		Metrics:    m,
		BatchSize:  cfg.PublishBatchSize,
		Interval:   cfg.PublishInterval,
	})
	go func() {
		if err := publisher.Start(workerCtx); err != nil && workerCtx.Err() == nil {
			log.Error().Err(err).Msg("event publisher stopped")
		}
	}()

	go runEntrySweeper(workerCtx, engines, m, cfg.DefaultWindow+cfg.RetentionPeriod, cfg.SweepInterval)

	if routerCfg.RateLimiter != nil {
		go runLimiterCleanup(workerCtx, routerCfg.RateLimiter)
	}

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

// selectGateway picks the token gateway. Without a configured URL every
// transfer is a logged dry run, which is what local development wants.
func selectGateway(cfg *config.Config) usecase.TokenGateway {
	if cfg.GatewayURL != "" {
		log.Info().Str("url", cfg.GatewayURL).Msg("using HTTP token gateway")
		return gateway.NewHTTPGateway(cfg.GatewayURL, cfg.GatewayAPIKey)
	}

	log.Warn().Msg("no gateway URL configured, transfers are dry runs")
	return gateway.NewLogGateway(log.Logger)
}

// runLimiterCleanup keeps the per-IP limiter map from growing without bound.
func runLimiterCleanup(ctx context.Context, limiter *middleware.RateLimiter) {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			limiter.CleanupStale(time.Hour)
		}
	}
}

// runEntrySweeper periodically deletes ledger entries that have aged past
// every window plus the retention slack.
func runEntrySweeper(ctx context.Context, engines *usecase.EngineCache, m *metrics.Metrics, retention, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			deleted, err := engines.SweepExpiredEntries(ctx, retention)
			if err != nil {
				log.Error().Err(err).Msg("entry sweep failed")
				continue
			}
			if deleted > 0 {
				m.EntriesSwept.Add(float64(deleted))
				log.Info().Int64("deleted", deleted).Msg("swept expired entries")
			}
		}
	}
}
