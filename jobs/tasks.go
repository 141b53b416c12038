// Package jobs defines the background tasks that keep the dashboard warm
// and the exchange rates fresh.
package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskRatesRefresh reloads exchange rates from the database into Redis.
	TaskRatesRefresh = "rates:refresh"
	// TaskDashboardWarmup precomputes dashboard results for common queries.
	TaskDashboardWarmup = "dashboard:warmup"
)

// RatesRefreshPayload configures a rates refresh run.
type RatesRefreshPayload struct {
	// InvalidateDashboard bumps the dashboard cache after the reload so
	// stale conversions disappear on the next request.
	InvalidateDashboard bool `json:"invalidate_dashboard"`
}

// DashboardWarmupPayload configures a warmup run.
type DashboardWarmupPayload struct {
	// Currencies to precompute results for. Empty means the configured
	// display currency only.
	Currencies []string `json:"currencies,omitempty"`
}

// NewRatesRefreshTask constructs an Asynq task.
func NewRatesRefreshTask(payload RatesRefreshPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskRatesRefresh, data), nil
}

// NewDashboardWarmupTask constructs an Asynq task.
func NewDashboardWarmupTask(payload DashboardWarmupPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskDashboardWarmup, data), nil
}
