package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-TourBookingService/internal/api"
	"github.com/m04kA/SMC-TourBookingService/internal/api/handlers/health"
	"github.com/m04kA/SMC-TourBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-TourBookingService/internal/config"
	"github.com/m04kA/SMC-TourBookingService/internal/domain"
	"github.com/m04kA/SMC-TourBookingService/internal/infra/cache/capacitycache"
	"github.com/m04kA/SMC-TourBookingService/internal/infra/events"
	botServiceClient "github.com/m04kA/SMC-TourBookingService/internal/integrations/botservice"
	activitiesService "github.com/m04kA/SMC-TourBookingService/internal/service/activities"
	botSettingsService "github.com/m04kA/SMC-TourBookingService/internal/service/botsettings"
	capacityService "github.com/m04kA/SMC-TourBookingService/internal/service/capacity"
	reservationsService "github.com/m04kA/SMC-TourBookingService/internal/service/reservations"
	cancelReservationUC "github.com/m04kA/SMC-TourBookingService/internal/usecase/cancel_reservation"
	createReservationUC "github.com/m04kA/SMC-TourBookingService/internal/usecase/create_reservation"
	ingestMessageUC "github.com/m04kA/SMC-TourBookingService/internal/usecase/ingest_message"
	ingestOrderUC "github.com/m04kA/SMC-TourBookingService/internal/usecase/ingest_order"
	resolveCapacityUC "github.com/m04kA/SMC-TourBookingService/internal/usecase/resolve_capacity"
	"github.com/m04kA/SMC-TourBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-TourBookingService/pkg/logger"
	"github.com/m04kA/SMC-TourBookingService/pkg/metrics"
)

// slotCache кэш слотов: Redis или no-op
type slotCache interface {
	Get(ctx context.Context, date, scope string) ([]domain.CapacitySlot, string, bool, error)
	Set(ctx context.Context, date, scope, version string, slots []domain.CapacitySlot) error
	Invalidate(ctx context.Context, date string) error
	InvalidateAll(ctx context.Context) error
}

type eventPublisher interface {
	Publish(ctx context.Context, event events.ReservationEvent) error
	Close() error
}

// redisPinger адаптирует redis.Client к health.Pinger
type redisPinger struct {
	rdb *redis.Client
}

func (p redisPinger) PingContext(ctx context.Context) error {
	return p.rdb.Ping(ctx).Err()
}

func main() {
	configPath := "config.toml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		configPath = v
	}

	// Загружаем конфигурацию
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-TourBookingService...")
	log.Info("Configuration loaded from %s", configPath)

	// Инициализируем метрики (если включены)
	var (
		metricsCollector *metrics.Metrics
		recorder         metrics.Recorder = metrics.Nop{}
	)
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		recorder = metricsCollector
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	healthChecks := make(map[string]health.Pinger)

	// Хранилище
	var repos *repositories
	switch cfg.Storage.Driver {
	case config.StorageDriverMemory:
		repos = memoryRepositories()
		log.Warn("Using in-memory storage, data is lost on restart")
	default:
		db, err := sql.Open("postgres", cfg.Database.DSN())
		if err != nil {
			log.Fatal("Failed to connect to database: %v", err)
		}
		defer db.Close()

		// Настраиваем connection pool
		db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
		db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
		db.SetConnMaxLifetime(config.Duration(cfg.Database.ConnMaxLifetime))

		// Проверяем соединение
		if err := db.Ping(); err != nil {
			log.Fatal("Failed to ping database: %v", err)
		}
		log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
			cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

		var wrappedDB *dbmetrics.DB
		if cfg.Metrics.Enabled {
			wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
			log.Info("Database metrics collection started")
		} else {
			wrappedDB = dbmetrics.Wrap(db, nil)
		}

		repos = postgresRepositories(wrappedDB, cfg.Database.TxMaxAttempts)
		healthChecks["database"] = wrappedDB
	}

	// Кэш слотов
	var cache slotCache = capacitycache.Nop{}
	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			// Кэш не обязателен: продолжаем, запросы пойдут в хранилище
			log.Warn("Redis is unavailable at %s: %v", cfg.Redis.Addr, err)
		}
		cancel()

		cache = capacitycache.New(rdb, config.Duration(cfg.Redis.TTL))
		healthChecks["redis"] = redisPinger{rdb: rdb}
		log.Info("Capacity cache enabled (redis=%s, ttl=%ds)", cfg.Redis.Addr, cfg.Redis.TTL)
	}

	// События бронирований
	var publisher eventPublisher = events.Nop{}
	if cfg.RabbitMQ.Enabled {
		publisher = events.NewPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange, cfg.RabbitMQ.Queue, log)
		log.Info("Reservation events enabled (exchange=%s, queue=%s)", cfg.RabbitMQ.Exchange, cfg.RabbitMQ.Queue)
	}
	defer publisher.Close()

	// Интеграционные клиенты
	botClient := botServiceClient.NewClient(
		cfg.Bot.URL,
		config.Duration(cfg.Bot.Timeout),
		cfg.Bot.RequestsPerSecond,
		log,
	)
	if cfg.Bot.URL == "" {
		log.Warn("Bot orchestrator URL is empty, WhatsApp messages get the fallback reply")
	}

	// Инициализируем сервисы
	activitiesSvc := activitiesService.NewService(repos.activities, repos.reservations, repos.tx, cache, log)
	capacitySvc := capacityService.NewService(repos.capacity, cache, log)
	reservationsSvc := reservationsService.NewService(repos.reservations, log)
	botSettingsSvc := botSettingsService.NewService(repos.botSettings, log)

	// Инициализируем use cases
	resolveCapacityUseCase := resolveCapacityUC.NewUseCase(
		repos.activities,
		repos.capacity,
		cache,
		recorder,
		cfg.Capacity.MaxRangeDays,
		log,
	)
	createReservationUseCase := createReservationUC.NewUseCase(
		repos.activities,
		repos.capacity,
		repos.reservations,
		repos.tx,
		cache,
		publisher,
		recorder,
		log,
	)
	cancelReservationUseCase := cancelReservationUC.NewUseCase(
		repos.reservations,
		repos.capacity,
		repos.tx,
		cache,
		publisher,
		recorder,
		log,
	)
	ingestOrderUseCase := ingestOrderUC.NewUseCase(
		repos.reservations,
		createReservationUseCase,
		cancelReservationUseCase,
		recorder,
		log,
	)
	ingestMessageUseCase := ingestMessageUC.NewUseCase(
		repos.messages,
		botSettingsSvc,
		botClient,
		createReservationUseCase,
		recorder,
		log,
	)

	var limiter *middleware.RateLimiter
	if cfg.RateLimit.Enabled {
		limiter = middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst).
			WithTrustedProxy(cfg.RateLimit.TrustProxy)
		log.Info("Public reservation rate limit: %.2f rps, burst %d, trust proxy %t",
			cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst, cfg.RateLimit.TrustProxy)
	}

	if cfg.Webhooks.WooCommerceSecret == "" {
		log.Warn("WooCommerce webhook secret is empty, signatures are not verified")
	}
	if cfg.Webhooks.TwilioAuthToken == "" {
		log.Warn("Twilio auth token is empty, signatures are not verified")
	}

	// Настраиваем роутер
	r := api.NewRouter(&api.Deps{
		Activities:        activitiesSvc,
		Capacity:          capacitySvc,
		Reservations:      reservationsSvc,
		BotSettings:       botSettingsSvc,
		ResolveCapacity:   resolveCapacityUseCase,
		CreateReservation: createReservationUseCase,
		CancelReservation: cancelReservationUseCase,
		IngestOrder:       ingestOrderUseCase,
		IngestMessage:     ingestMessageUseCase,
		Metrics:           metricsCollector,
		MetricsPath:       cfg.Metrics.Path,
		RateLimiter:       limiter,
		WooCommerceSecret: cfg.Webhooks.WooCommerceSecret,
		TwilioAuthToken:   cfg.Webhooks.TwilioAuthToken,
		PublicURL:         cfg.Webhooks.PublicURL,
		HealthChecks:      healthChecks,
		Logger:            log,
	})

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  config.Duration(cfg.Server.ReadTimeout),
		WriteTimeout: config.Duration(cfg.Server.WriteTimeout),
		IdleTimeout:  config.Duration(cfg.Server.IdleTimeout),
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		config.Duration(cfg.Server.ShutdownTimeout),
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
