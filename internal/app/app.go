// Package app assembles the service and runs its lifecycle.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	"github.com/utafrali/MarketplaceGo/internal/auth"
	"github.com/utafrali/MarketplaceGo/internal/config"
	"github.com/utafrali/MarketplaceGo/internal/event"
	handler "github.com/utafrali/MarketplaceGo/internal/handler/http"
	"github.com/utafrali/MarketplaceGo/internal/repository/postgres"
	"github.com/utafrali/MarketplaceGo/internal/service"
	"github.com/utafrali/MarketplaceGo/migrations"
	"github.com/utafrali/MarketplaceGo/pkg/database"
	"github.com/utafrali/MarketplaceGo/pkg/health"
	"github.com/utafrali/MarketplaceGo/pkg/kafka"
	"github.com/utafrali/MarketplaceGo/pkg/logger"
	"github.com/utafrali/MarketplaceGo/pkg/middleware"
	"github.com/utafrali/MarketplaceGo/pkg/tracing"
)

// App holds every long-lived component of the running service.
type App struct {
	cfg    *config.Config
	logger *slog.Logger

	pool     *pgxpool.Pool
	redis    *redis.Client
	producer *kafka.Producer
	server   *http.Server

	shutdownTracer func(context.Context) error
}

// New builds the service: config, connections, migrations, and the full
// dependency graph.
func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log := logger.New(cfg.ServiceName, cfg.LogLevel)

	app := &App{cfg: cfg, logger: log}

	if cfg.Tracing.Enabled {
		shutdown, err := tracing.InitTracer(ctx, tracing.Config{
			ServiceName: cfg.ServiceName,
			Endpoint:    cfg.Tracing.Endpoint,
			SampleRatio: cfg.Tracing.SampleRatio,
			Environment: cfg.Environment,
		})
		if err != nil {
			return nil, fmt.Errorf("init tracing: %w", err)
		}
		app.shutdownTracer = shutdown
	}

	pool, err := database.NewPostgresPool(ctx, cfg.Postgres.Database(), log)
	if err != nil {
		return nil, err
	}
	app.pool = pool

	if err := database.Migrate(ctx, pool, migrations.FS, log); err != nil {
		app.Close()
		return nil, err
	}

	var userCache *middleware.ResponseCache
	if cfg.Redis.Enabled {
		client, err := database.NewRedisClient(ctx, cfg.Redis.Database())
		if err != nil {
			// The cache is optional; start without it.
			log.Warn("redis unavailable, response cache disabled", slog.String("error", err.Error()))
		} else {
			app.redis = client
			userCache = middleware.NewResponseCache(client, cfg.Redis.CacheTTL, "users")
		}
	}

	var events event.Publisher = event.NopPublisher{}
	if cfg.Kafka.Enabled {
		app.producer = kafka.NewProducer(kafka.ProducerConfig{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.Topic,
			Source:  cfg.ServiceName,
		})
		events = event.NewKafkaPublisher(app.producer)
	}

	userRepo := postgres.NewUserRepository(pool, log)
	itemRepo := postgres.NewItemRepository(pool, log)

	hasher := auth.NewHasher()
	tokens := auth.NewTokenService(cfg.Token)
	resolver := auth.NewIdentityResolver(tokens, userRepo)

	authSvc := service.NewAuthService(userRepo, hasher, tokens, resolver)
	userSvc := service.NewUserService(userRepo, hasher, events)
	itemSvc := service.NewItemService(itemRepo, events)

	checker := health.NewChecker(5 * time.Second)
	checker.Register("postgres", pool.Ping)
	if app.redis != nil {
		checker.RegisterNonCritical("redis", func(ctx context.Context) error {
			return app.redis.Ping(ctx).Err()
		})
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		database.NewPoolStatsCollector(pool),
	)

	router := handler.NewRouter(handler.RouterDeps{
		Config:     cfg,
		Logger:     log,
		Auth:       handler.NewAuthHandler(authSvc),
		Users:      handler.NewUserHandler(userSvc),
		Items:      handler.NewItemHandler(itemSvc),
		Identifier: authSvc,
		Health:     checker,
		Metrics:    middleware.NewHTTPMetrics(registry),
		Registry:   registry,
		UserCache:  userCache,
	})

	app.server = &http.Server{
		Addr:         cfg.HTTP.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	return app, nil
}

// Run serves HTTP until the context is cancelled or a signal arrives, then
// shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("http server listening",
			slog.String("addr", a.server.Addr),
			slog.String("environment", a.cfg.Environment),
		)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	a.logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http shutdown failed", slog.String("error", err.Error()))
	}

	a.Close()
	a.logger.Info("shutdown complete")
	return nil
}

// Close releases every connection in reverse dependency order.
func (a *App) Close() {
	if a.shutdownTracer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := a.shutdownTracer(ctx); err != nil {
			a.logger.Error("tracer shutdown failed", slog.String("error", err.Error()))
		}
		cancel()
		a.shutdownTracer = nil
	}
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Error("kafka producer close failed", slog.String("error", err.Error()))
		}
		a.producer = nil
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Error("redis close failed", slog.String("error", err.Error()))
		}
		a.redis = nil
	}
	if a.pool != nil {
		a.pool.Close()
		a.pool = nil
	}
}
