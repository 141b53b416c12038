package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/tembo-ops/tembo-ops/internal/app"
	"github.com/tembo-ops/tembo-ops/internal/booking"
	"github.com/tembo-ops/tembo-ops/internal/dashboard"
	"github.com/tembo-ops/tembo-ops/internal/finance"
	"github.com/tembo-ops/tembo-ops/internal/fleet"
	"github.com/tembo-ops/tembo-ops/internal/fx"
	jobmetrics "github.com/tembo-ops/tembo-ops/internal/jobs"
	"github.com/tembo-ops/tembo-ops/internal/platform/cache"
	"github.com/tembo-ops/tembo-ops/internal/platform/db"
	"github.com/tembo-ops/tembo-ops/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
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

	fxRepo := fx.NewRepository(pool)
	fxService := fx.NewService(fxRepo, redisClient, cfg.RatesTTL)

	fleetRepo := fleet.NewRepository(pool)
	bookingRepo := booking.NewRepository(pool)
	financeRepo := finance.NewRepository(pool)

	dashCache := dashboard.NewCache(redisClient, cfg.DashboardTTL)
	dashService := dashboard.NewService(fleetRepo, bookingRepo, financeRepo, fxService, dashCache)

	metrics := jobmetrics.NewMetrics(nil)
	refreshJob := jobs.NewRatesRefreshJob(fxService, dashService, logger, metrics)
	warmupJob := jobs.NewDashboardWarmupJob(dashService, cfg.DisplayCurrency, logger, metrics)

	refreshTask, err := jobs.NewRatesRefreshTask(jobs.RatesRefreshPayload{InvalidateDashboard: true})
	if err != nil {
		logger.Error("build refresh task", slog.Any("error", err))
		os.Exit(1)
	}
	warmupTask, err := jobs.NewDashboardWarmupTask(jobs.DashboardWarmupPayload{})
	if err != nil {
		logger.Error("build warmup task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts:   asynq.RedisClientOpt{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB},
		Logger:      logger,
		Concurrency: cfg.WorkerConcurrency,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskRatesRefresh, Handler: refreshJob.Handle},
			{Type: jobs.TaskDashboardWarmup, Handler: warmupJob.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: "0 * * * *", Task: refreshTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
			{Spec: "15 1 * * *", Task: warmupTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
