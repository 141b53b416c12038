package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/tembo-ops/tembo-ops/internal/fx"
	jobmetrics "github.com/tembo-ops/tembo-ops/internal/jobs"
)

// RateRefresher reloads exchange rates from their source of truth.
type RateRefresher interface {
	Refresh(ctx context.Context) (fx.RateTable, error)
}

// DashboardInvalidator discards cached dashboard results.
type DashboardInvalidator interface {
	Invalidate(ctx context.Context) error
}

// RatesRefreshJob reloads the exchange-rate snapshot in Redis.
type RatesRefreshJob struct {
	Rates     RateRefresher
	Dashboard DashboardInvalidator
	Logger    *slog.Logger
	Metrics   *jobmetrics.Metrics
}

// NewRatesRefreshJob wires dependencies for the refresh handler.
func NewRatesRefreshJob(rates RateRefresher, dash DashboardInvalidator, logger *slog.Logger, metrics *jobmetrics.Metrics) *RatesRefreshJob {
	return &RatesRefreshJob{Rates: rates, Dashboard: dash, Logger: logger, Metrics: metrics}
}

// Handle processes TaskRatesRefresh tasks.
func (j *RatesRefreshJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Rates == nil {
		return errors.New("rates refresh: handler not configured")
	}
	var payload RatesRefreshPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	tracker := j.Metrics.Track(TaskRatesRefresh)
	var resultErr error
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	table, err := j.Rates.Refresh(ctx)
	if err != nil {
		resultErr = err
		j.logError("refresh rates", err)
		return resultErr
	}
	j.logInfo("rates refreshed", slog.Int("currencies", len(table)))

	if payload.InvalidateDashboard && j.Dashboard != nil {
		if err := j.Dashboard.Invalidate(ctx); err != nil {
			resultErr = err
			j.logError("invalidate dashboard", err)
			return resultErr
		}
	}
	return resultErr
}

func (j *RatesRefreshJob) logInfo(msg string, args ...any) {
	if j.Logger != nil {
		j.Logger.Info(msg, args...)
	}
}

func (j *RatesRefreshJob) logError(msg string, err error) {
	if j.Logger != nil {
		j.Logger.Error(msg, slog.Any("error", err))
	}
}
