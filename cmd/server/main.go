package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	httpAdapter "github.com/econsim/clearing/internal/adapter/http"
	"github.com/econsim/clearing/internal/adapter/http/handler"
	"github.com/econsim/clearing/internal/adapter/observer"
	"github.com/econsim/clearing/internal/adapter/repository/memory"
	postgresRepo "github.com/econsim/clearing/internal/adapter/repository/postgres"
	redisRepo "github.com/econsim/clearing/internal/adapter/repository/redis"
	"github.com/econsim/clearing/internal/infrastructure/config"
	"github.com/econsim/clearing/internal/infrastructure/logger"
	"github.com/econsim/clearing/internal/infrastructure/metrics"
	"github.com/econsim/clearing/internal/infrastructure/postgres"
	"github.com/econsim/clearing/internal/infrastructure/redis"
	"github.com/econsim/clearing/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	baseLogger := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	log.Logger = baseLogger

	ctx := context.Background()

	// Journal archive is optional. The in-memory ledger is authoritative
	// either way; postgres only keeps a durable record of transfers.
	var pool *pgxpool.Pool
	var journal usecase.JournalRepository
	if cfg.DatabaseURL != "" {
		if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
			log.Fatal().Err(err).Msg("failed to migrate journal schema")
		}
		pool, err = postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to postgres")
		}
		defer pool.Close()
		journal = postgresRepo.NewJournalRepository(pool, logger.ForComponent(baseLogger, "journal"))
		log.Info().Msg("journal archive enabled")
	}

	var redisClient *goredis.Client
	var cache usecase.Cache
	if cfg.RedisURL != "" {
		redisClient, err = redis.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer redisClient.Close()
		cache = redisRepo.NewCache(redisClient)
		log.Info().Msg("snapshot cache enabled")
	}

	// Repositories
	accountRepo := memory.NewAccountRepository()
	bankRepo := memory.NewBankRepository()
	orderRepo := memory.NewOrderRepository()
	instrumentRepo := memory.NewInstrumentRepository()
	inventoryRepo := memory.NewInventoryRepository()
	participants := memory.NewParticipantRegistry()
	idGen := memory.NewULIDGenerator()

	// Observers
	m := metrics.New()
	observers := []usecase.Observer{
		observer.NewLoggingObserver(logger.ForComponent(baseLogger, "ledger")),
		observer.NewMetricsObserver(m),
	}
	if journal != nil {
		observers = append(observers, observer.NewJournalObserver(journal, logger.ForComponent(baseLogger, "journal")))
	}
	obs := observer.NewMulti(observers...)

	// Use cases
	transferUC := usecase.NewTransferUseCase(accountRepo, bankRepo, idGen, obs, logger.ForComponent(baseLogger, "transfer"))
	bankingUC := usecase.NewBankingUseCase(bankRepo, accountRepo, instrumentRepo, transferUC, idGen, obs, logger.ForComponent(baseLogger, "banking"))
	orderBookUC := usecase.NewOrderBookUseCase(orderRepo, accountRepo, idGen, logger.ForComponent(baseLogger, "orderbook"))
	pricingUC := usecase.NewPricingUseCase(orderRepo)
	matchingUC := usecase.NewMatchingUseCase(orderRepo)
	settlementUC := usecase.NewSettlementUseCase(
		matchingUC, transferUC, orderRepo, accountRepo, instrumentRepo,
		inventoryRepo, participants, obs, logger.ForComponent(baseLogger, "settlement"),
	)
	auditUC := usecase.NewAuditUseCase(accountRepo, bankRepo)

	// Handlers
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AccountHandler:  handler.NewAccountHandler(bankingUC, accountRepo),
		BankHandler:     handler.NewBankHandler(bankingUC, bankRepo),
		BookHandler:     handler.NewBookHandler(orderBookUC, pricingUC, settlementUC, cache, cfg.SnapshotTTL, logger.ForComponent(baseLogger, "books")),
		TransferHandler: handler.NewTransferHandler(transferUC, journal),
		LedgerHandler:   handler.NewLedgerHandler(auditUC),
		HealthHandler:   handler.NewHealthHandler(pool, redisClient),
		Metrics:         m,
		Logger:          logger.ForComponent(baseLogger, "http"),
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
	}

	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
