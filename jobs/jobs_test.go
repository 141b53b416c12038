package jobs

import (
	"context"
	"errors"
	"testing"

	"github.com/tembo-ops/tembo-ops/internal/dashboard"
	"github.com/tembo-ops/tembo-ops/internal/fx"
)

type stubRates struct {
	table fx.RateTable
	err   error
	calls int
}

func (s *stubRates) Refresh(ctx context.Context) (fx.RateTable, error) {
	s.calls++
	return s.table, s.err
}

type stubDashboard struct {
	queries     []dashboard.Query
	err         error
	invalidated int
}

func (s *stubDashboard) GetDashboard(ctx context.Context, q dashboard.Query) (*dashboard.Result, error) {
	s.queries = append(s.queries, q)
	if s.err != nil {
		return nil, s.err
	}
	return &dashboard.Result{Currency: q.DisplayCurrency}, nil
}

func (s *stubDashboard) Invalidate(ctx context.Context) error {
	s.invalidated++
	return s.err
}

func TestRatesRefreshJobInvalidatesDashboard(t *testing.T) {
	rates := &stubRates{table: fx.RateTable{"USD": 1, "UGX": 3700}}
	dash := &stubDashboard{}
	job := NewRatesRefreshJob(rates, dash, nil, nil)

	task, err := NewRatesRefreshTask(RatesRefreshPayload{InvalidateDashboard: true})
	if err != nil {
		t.Fatalf("build task: %v", err)
	}
	if err := job.Handle(context.Background(), task); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if rates.calls != 1 {
		t.Fatalf("refresh calls = %d", rates.calls)
	}
	if dash.invalidated != 1 {
		t.Fatalf("invalidations = %d", dash.invalidated)
	}
}

func TestRatesRefreshJobSkipsInvalidationOnFailure(t *testing.T) {
	rates := &stubRates{err: errors.New("db down")}
	dash := &stubDashboard{}
	job := NewRatesRefreshJob(rates, dash, nil, nil)

	task, err := NewRatesRefreshTask(RatesRefreshPayload{InvalidateDashboard: true})
	if err != nil {
		t.Fatalf("build task: %v", err)
	}
	if err := job.Handle(context.Background(), task); err == nil {
		t.Fatal("expected refresh failure to propagate")
	}
	if dash.invalidated != 0 {
		t.Fatalf("invalidations = %d", dash.invalidated)
	}
}

func TestDashboardWarmupJobCoversDefaultQueries(t *testing.T) {
	dash := &stubDashboard{}
	job := NewDashboardWarmupJob(dash, "USD", nil, nil)

	task, err := NewDashboardWarmupTask(DashboardWarmupPayload{})
	if err != nil {
		t.Fatalf("build task: %v", err)
	}
	if err := job.Handle(context.Background(), task); err != nil {
		t.Fatalf("handle: %v", err)
	}

	if len(dash.queries) != 2 {
		t.Fatalf("queries = %d, want 2", len(dash.queries))
	}
	if dash.queries[0].DisplayCurrency != "USD" || !dash.queries[0].Global.All() {
		t.Fatalf("first query = %+v", dash.queries[0])
	}
	if dash.queries[1].Global.Month == nil {
		t.Fatalf("second query should pin the current month: %+v", dash.queries[1])
	}
}

func TestDashboardWarmupJobHonoursCurrencyList(t *testing.T) {
	dash := &stubDashboard{}
	job := NewDashboardWarmupJob(dash, "USD", nil, nil)

	task, err := NewDashboardWarmupTask(DashboardWarmupPayload{Currencies: []string{"ugx", " kes "}})
	if err != nil {
		t.Fatalf("build task: %v", err)
	}
	if err := job.Handle(context.Background(), task); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(dash.queries) != 4 {
		t.Fatalf("queries = %d, want 4", len(dash.queries))
	}
	if dash.queries[0].DisplayCurrency != "UGX" || dash.queries[2].DisplayCurrency != "KES" {
		t.Fatalf("currencies not normalised: %+v", dash.queries)
	}
}
