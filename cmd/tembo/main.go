package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/tembo-ops/tembo-ops/internal/app"
	"github.com/tembo-ops/tembo-ops/internal/booking"
	"github.com/tembo-ops/tembo-ops/internal/dashboard"
	dashhttp "github.com/tembo-ops/tembo-ops/internal/dashboard/http"
	"github.com/tembo-ops/tembo-ops/internal/finance"
	"github.com/tembo-ops/tembo-ops/internal/fleet"
	"github.com/tembo-ops/tembo-ops/internal/fx"
	"github.com/tembo-ops/tembo-ops/internal/observability"
	"github.com/tembo-ops/tembo-ops/internal/platform/cache"
	"github.com/tembo-ops/tembo-ops/internal/platform/db"
	"github.com/tembo-ops/tembo-ops/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN, db.Options{MaxConns: cfg.PGMaxConns})
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	metrics := observability.NewMetrics()

	fxRepo := fx.NewRepository(pool)
	fxService := fx.NewService(fxRepo, redisClient, cfg.RatesTTL)
	fxHandler := fx.NewHandler(logger, fxService)

	fleetRepo := fleet.NewRepository(pool)
	bookingRepo := booking.NewRepository(pool)
	financeRepo := finance.NewRepository(pool)
	financeHandler := finance.NewHandler(logger, financeRepo)

	dashCache := dashboard.NewCache(redisClient, cfg.DashboardTTL)
	dashService := dashboard.NewService(fleetRepo, bookingRepo, financeRepo, fxService, dashCache)
	dashHandler := dashhttp.NewHandler(logger, dashService, cfg.DisplayCurrency)
	dashHandler.WithMetrics(metrics)

	// Cross-process invalidation: the worker bumps the version channel and
	// every API pod drops its cached results.
	if err := dashCache.ListenForInvalidation(ctx, ""); err != nil {
		logger.Warn("subscribe invalidation channel", slog.Any("error", err))
	}

	redisOpts := asynq.RedisClientOpt{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB}
	inspector := asynq.NewInspector(redisOpts)
	jobHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		Pool:             pool,
		Redis:            redisClient,
		DashboardHandler: dashHandler,
		FXHandler:        fxHandler,
		FinanceHandler:   financeHandler,
		JobHandler:       jobHandler,
		Metrics:          metrics,
	})

	// Warm the cache on boot so the first dashboard request is fast.
	jobClient, err := jobs.NewClient(redisOpts)
	if err != nil {
		logger.Warn("init job client", slog.Any("error", err))
	} else {
		defer func() {
			if err := jobClient.Close(); err != nil {
				logger.Warn("job client close", slog.Any("error", err))
			}
		}()
		if _, err := jobClient.EnqueueDashboardWarmup(ctx, jobs.DashboardWarmupPayload{}); err != nil {
			logger.Warn("enqueue boot warmup", slog.Any("error", err))
		}
	}

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", cfg.AppAddr))
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown", slog.Any("error", err))
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server run", slog.Any("error", err))
			os.Exit(1)
		}
	}
}
