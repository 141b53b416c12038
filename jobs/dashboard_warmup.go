package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/hibiken/asynq"

	"github.com/tembo-ops/tembo-ops/internal/dashboard"
	jobmetrics "github.com/tembo-ops/tembo-ops/internal/jobs"
)

// DashboardLoader computes or fetches one dashboard result.
type DashboardLoader interface {
	GetDashboard(ctx context.Context, q dashboard.Query) (*dashboard.Result, error)
}

// DashboardWarmupJob precomputes the dashboard for the queries the UI
// issues on first load, so the morning's first visitor hits a warm cache.
type DashboardWarmupJob struct {
	Dashboard       DashboardLoader
	DefaultCurrency string
	Logger          *slog.Logger
	Metrics         *jobmetrics.Metrics
	clock           func() time.Time
}

// NewDashboardWarmupJob wires dependencies for the warmup handler.
func NewDashboardWarmupJob(loader DashboardLoader, defaultCurrency string, logger *slog.Logger, metrics *jobmetrics.Metrics) *DashboardWarmupJob {
	return &DashboardWarmupJob{
		Dashboard:       loader,
		DefaultCurrency: defaultCurrency,
		Logger:          logger,
		Metrics:         metrics,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle processes TaskDashboardWarmup tasks.
func (j *DashboardWarmupJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Dashboard == nil {
		return errors.New("dashboard warmup: handler not configured")
	}
	var payload DashboardWarmupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	currencies := payload.Currencies
	if len(currencies) == 0 {
		currencies = []string{j.DefaultCurrency}
	}

	tracker := j.Metrics.Track(TaskDashboardWarmup)
	var resultErr error
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	now := j.clock()
	warmed := 0
	for _, currency := range currencies {
		currency = strings.ToUpper(strings.TrimSpace(currency))
		if currency == "" {
			continue
		}
		for _, q := range warmupQueries(currency, now) {
			if _, err := j.Dashboard.GetDashboard(ctx, q); err != nil {
				resultErr = err
				j.logError("warm dashboard", currency, err)
				return resultErr
			}
			warmed++
		}
	}
	j.logInfo("dashboard warmup complete", slog.Int("queries", warmed))
	return resultErr
}

// warmupQueries returns the default landing-page query plus the
// current-month view, the two selections users open first.
func warmupQueries(currency string, now time.Time) []dashboard.Query {
	month := now.Month()
	return []dashboard.Query{
		{DisplayCurrency: currency, AsOf: now},
		{
			DisplayCurrency: currency,
			AsOf:            now,
			Global:          dashboard.GlobalWindow{Month: &month, Year: now.Year()},
		},
	}
}

func (j *DashboardWarmupJob) logInfo(msg string, args ...any) {
	if j.Logger != nil {
		j.Logger.Info(msg, args...)
	}
}

func (j *DashboardWarmupJob) logError(msg, currency string, err error) {
	if j.Logger != nil {
		j.Logger.Error(msg, slog.String("currency", currency), slog.Any("error", err))
	}
}
