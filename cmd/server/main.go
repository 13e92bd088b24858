package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	httpAdapter "github.com/iho/gohotel/internal/adapter/http"
	"github.com/iho/gohotel/internal/adapter/http/handler"
	"github.com/iho/gohotel/internal/adapter/http/middleware"
	memoryRepo "github.com/iho/gohotel/internal/adapter/repository/memory"
	postgresRepo "github.com/iho/gohotel/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/gohotel/internal/adapter/repository/redis"
	"github.com/iho/gohotel/internal/infrastructure/config"
	"github.com/iho/gohotel/internal/infrastructure/eventpublisher"
	"github.com/iho/gohotel/internal/infrastructure/logger"
	"github.com/iho/gohotel/internal/infrastructure/metrics"
	"github.com/iho/gohotel/internal/infrastructure/postgres"
	"github.com/iho/gohotel/internal/infrastructure/redis"
	"github.com/iho/gohotel/internal/usecase"
)

const limiterMaxIdle = 10 * time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: "hotel-server",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}

// run serves HTTP until ctx is cancelled, then shuts down gracefully.
func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	a, err := newApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	workerCtx, cancelWorkers := context.WithCancel(ctx)
	defer cancelWorkers()

	go func() {
		_ = a.publisher.Start(workerCtx)
	}()
	if a.rateLimiter != nil {
		go a.cleanupLimiters(workerCtx, time.Minute)
	}

	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      a.handler,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Str("storage", cfg.StorageDriver).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server...")
	cancelWorkers()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info().Msg("server stopped")
	return nil
}

// app is the wired service.
type app struct {
	handler     http.Handler
	publisher   *eventpublisher.EventPublisher
	rateLimiter *middleware.RateLimiter
	logger      zerolog.Logger
	closers     []func()
}

// Close releases connections in reverse order of acquisition.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

func (a *app) cleanupLimiters(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := a.rateLimiter.CleanupLimiters(limiterMaxIdle); n > 0 {
				a.logger.Debug().Int("removed", n).Msg("evicted idle rate limiters")
			}
		}
	}
}

// repositories is the storage backend selected by STORAGE_DRIVER.
type repositories struct {
	txManager usecase.TransactionManager
	customers usecase.CustomerRepository
	wallets   usecase.WalletRepository
	bookings  usecase.BookingRepository
	outbox    usecase.OutboxRepository
	audit     usecase.AuditRepository
	ledger    usecase.LedgerRepository
	checks    []handler.HealthCheck
}

func newApp(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*app, error) {
	a := &app{logger: log}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewWithRegistry(registry)

	repos, err := a.openStorage(ctx, cfg, log)
	if err != nil {
		a.Close()
		return nil, err
	}

	var (
		cache            usecase.Cache
		idempotencyStore usecase.IdempotencyStore
		publisher        eventpublisher.Publisher = eventpublisher.NewLogPublisher(log)
	)
	if cfg.RedisEnabled {
		client, err := redis.NewClient(ctx, cfg.RedisURL, redis.Options{PoolSize: cfg.RedisPoolSize}, log)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		a.closers = append(a.closers, func() { _ = client.Close() })

		cache = redisRepo.NewCache(client)
		idempotencyStore = redisRepo.NewIdempotencyStore(client)
		publisher = eventpublisher.NewRedisPublisher(client, cfg.OutboxChannel)
		repos.checks = append(repos.checks, redisCheck(client))
	}

	idGen := postgresRepo.NewULIDGenerator()
	retrier := postgresRepo.NewRetrier(m, log)

	customerUC := usecase.NewCustomerUseCase(repos.txManager, repos.customers, repos.outbox, repos.audit, idGen, m, log)
	walletUC := usecase.NewWalletUseCase(repos.txManager, repos.customers, repos.wallets, repos.outbox, repos.audit, idGen, retrier, m, log)
	bookingUC := usecase.NewBookingUseCase(repos.txManager, repos.customers, repos.wallets, repos.bookings, repos.outbox, repos.audit, idGen, retrier, m, log)
	statsUC := usecase.NewStatsUseCase(repos.ledger, cache, cfg.StatsCacheTTL, m, log)
	auditUC := usecase.NewAuditUseCase(repos.audit)

	if cfg.RateLimitRPS > 0 {
		a.rateLimiter = middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, m)
	}

	a.handler = httpAdapter.NewRouter(httpAdapter.RouterConfig{
		CustomerHandler:  handler.NewCustomerHandler(customerUC),
		WalletHandler:    handler.NewWalletHandler(walletUC),
		BookingHandler:   handler.NewBookingHandler(bookingUC),
		RoomHandler:      handler.NewRoomHandler(usecase.NewRoomUseCase()),
		AdminHandler:     handler.NewAdminHandler(statsUC, auditUC),
		HealthHandler:    handler.NewHealthHandler(repos.checks...),
		IdempotencyStore: idempotencyStore,
		IdempotencyTTL:   cfg.IdempotencyTTL,
		RateLimiter:      a.rateLimiter,
		Metrics:          m,
		MetricsHandler:   promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}),
		Logger:           log,
	})

	a.publisher = eventpublisher.NewEventPublisher(eventpublisher.Config{
		OutboxRepo: repos.outbox,
		Publisher:  publisher,
		Metrics:    m,
		Logger:     log,
		BatchSize:  cfg.OutboxBatchSize,
		Interval:   cfg.OutboxInterval,
		Retention:  cfg.OutboxRetention,
	})

	return a, nil
}

func (a *app) openStorage(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*repositories, error) {
	if cfg.StorageDriver == config.StorageMemory {
		log.Warn().Msg("using in-memory storage, data is lost on restart")
		store := memoryRepo.NewStore()
		return &repositories{
			txManager: memoryRepo.NewTxManager(store),
			customers: memoryRepo.NewCustomerRepository(store),
			wallets:   memoryRepo.NewWalletRepository(store),
			bookings:  memoryRepo.NewBookingRepository(store),
			outbox:    memoryRepo.NewOutboxRepository(store),
			audit:     memoryRepo.NewAuditRepository(store),
			ledger:    memoryRepo.NewLedgerRepository(store),
		}, nil
	}

	if cfg.RunMigrations {
		if err := postgres.NewMigrator(cfg.DatabaseURL, cfg.MigrationsPath, log).Up(); err != nil {
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
		DatabaseURL:    cfg.DatabaseURL,
		MaxConns:       cfg.DatabaseMaxConns,
		MinConns:       cfg.DatabaseMinConns,
		ConnectTimeout: cfg.DatabaseTimeout,
		Logger:         log,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	a.closers = append(a.closers, pool.Close)
	log.Info().Msg("connected to postgres")

	return &repositories{
		txManager: postgresRepo.NewTxManager(pool),
		customers: postgresRepo.NewCustomerRepository(pool),
		wallets:   postgresRepo.NewWalletRepository(pool),
		bookings:  postgresRepo.NewBookingRepository(pool),
		outbox:    postgresRepo.NewOutboxRepository(pool),
		audit:     postgresRepo.NewAuditRepository(pool),
		ledger:    postgresRepo.NewLedgerRepository(pool),
		checks: []handler.HealthCheck{{
			Name:  "postgres",
			Check: pool.Ping,
		}},
	}, nil
}

func redisCheck(client *goredis.Client) handler.HealthCheck {
	return handler.HealthCheck{
		Name: "redis",
		Check: func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		},
	}
}
