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

	"menuhub/internal/caching"
	"menuhub/internal/common"
	"menuhub/internal/config"
	"menuhub/internal/handlers"
	"menuhub/internal/jobs/background"
	"menuhub/internal/logging"
	"menuhub/internal/metrics"
	"menuhub/internal/middleware"
	"menuhub/internal/repositories"
	"menuhub/internal/services"
	"menuhub/pkg/database"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

const (
	serviceName = "menuhub"
	version     = "v1"
)

func main() {
	cmd := "serve"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(logging.Options{
		ServiceName: serviceName,
		Level:       cfg.App.LogLevel,
		Format:      cfg.App.LogFormat,
	})

	ctx, stop := signal.NotifyContext(logger.WithContext(context.Background()), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch cmd {
	case "serve":
		err = serve(ctx, cfg, logger)
	case "migrate":
		err = migrate(ctx, cfg)
	default:
		err = fmt.Errorf("unknown command %q (expected serve or migrate)", cmd)
	}
	if err != nil {
		logger.Fatal().Err(err).Str("command", cmd).Msg("menuhub exited")
	}
}

func migrate(ctx context.Context, cfg *config.Config) error {
	pool, err := database.NewPool(ctx, cfg.DB)
	if err != nil {
		return err
	}
	defer pool.Close()
	return database.Migrate(ctx, pool)
}

func serve(ctx context.Context, cfg *config.Config, logger zerolog.Logger) error {
	pool, err := database.NewPool(ctx, cfg.DB)
	if err != nil {
		return err
	}
	defer pool.Close()

	if cfg.DB.AutoMigrate {
		if err := database.Migrate(ctx, pool); err != nil {
			return err
		}
	}

	redisClient := caching.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	defer redisClient.Close()
	cacheSvc := caching.NewRedisCacheService(redisClient)
	if err := cacheSvc.Ping(ctx); err != nil {
		logger.Warn().Err(err).Msg("redis unavailable, catalog cache and idempotency degrade to pass-through")
	}

	registry := prometheus.DefaultRegisterer
	ingestionMetrics := metrics.NewIngestionMetrics(registry)
	jobMetrics := metrics.NewJobMetrics(registry)

	stores := repositories.NewStoreFactory(pool)
	catalog := services.NewCatalogLookup(cacheSvc, cfg.Redis.CatalogTTL)
	ingestionSvc := services.NewOrderIngestionService(stores, catalog, ingestionMetrics)
	querySvc := services.NewOrderQueryService(stores)

	scheduler, err := background.NewJobScheduler(repositories.NewOrderItemRepo(pool), jobMetrics, logger,
		background.SchedulerConfig{
			UnlinkedReportInterval: cfg.Jobs.UnlinkedReportInterval,
			UnlinkedReportLookback: cfg.Jobs.UnlinkedReportLookback,
		})
	if err != nil {
		return err
	}
	scheduler.Start()
	defer func() {
		if err := scheduler.Stop(); err != nil {
			logger.Error().Err(err).Msg("stop scheduler")
		}
	}()

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = common.HTTPErrorHandler

	e.Use(middleware.RequestLogger(logger))
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.RemoveTrailingSlash())

	if !cfg.Chatbot.Enabled() {
		logger.Info().Msg("chatbot route disabled, no shared secret configured")
	}

	handlers.RegisterRoutes(e, handlers.RouteConfig{
		Version:        version,
		JWTSecret:      cfg.JWT.Secret,
		TenantClaim:    cfg.JWT.TenantClaim,
		ChatbotSecret:  cfg.Chatbot.Secret,
		Idempotency:    cacheSvc,
		IdempotencyTTL: cfg.Redis.IdempotencyTTL,
		Gatherer:       prometheus.DefaultGatherer,
	},
		handlers.NewOrderHandlers(ingestionSvc, querySvc),
		handlers.NewHealthHandlers(pool, cacheSvc),
	)

	errCh := make(chan error, 1)
	go func() {
		addr := ":" + cfg.App.Port
		logger.Info().Str("addr", addr).Str("env", cfg.App.Env).Msg("starting server")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
