// Package dashboard implements the financial and fleet KPI aggregation
// engine: a pure function from (collections snapshot, query) to one
// immutable dashboard result. It holds no state across invocations and is
// safe to call concurrently from independent call sites.
package dashboard

import (
	"fmt"
	"time"

	"github.com/tembo-ops/tembo-ops/internal/fx"
)

// Compute evaluates the full dashboard for one snapshot and query. The
// result is deterministic for identical inputs; the only clock input is
// Query.AsOf, which defaults to the wall clock when unset.
//
// A currency missing from the rate table aborts the whole computation:
// partial or silently-zeroed KPIs are more dangerous than a visible error.
// Records with unusable dates are instead skipped per-record from
// date-bucketed views only.
func Compute(snap Snapshot, q Query) (*Result, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	if !snap.Rates.Has(fx.BaseCurrency) {
		return nil, fmt.Errorf("dashboard: rate table missing base currency")
	}
	if !snap.Rates.Has(q.DisplayCurrency) {
		return nil, &fx.UnknownCurrencyError{Currency: q.DisplayCurrency}
	}
	asOf := q.AsOf
	if asOf.IsZero() {
		asOf = time.Now().UTC()
	}

	known := validCRNumbers(snap.Requisitions)

	kpi, err := computeKPI(snap, q, known, asOf)
	if err != nil {
		return nil, err
	}
	revenueSeries, err := monthlyRevenueSeries(snap, q, asOf)
	if err != nil {
		return nil, err
	}
	expenseSeries, err := monthlyExpenseSeries(snap, known, q, asOf)
	if err != nil {
		return nil, err
	}
	categories, err := categoryBreakdown(snap, known, q, asOf)
	if err != nil {
		return nil, err
	}
	ranking, err := vehicleRanking(snap, q, asOf)
	if err != nil {
		return nil, err
	}
	comparison, err := capacityComparison(snap, q, asOf)
	if err != nil {
		return nil, err
	}
	outstanding, err := outstandingPayments(snap, q)
	if err != nil {
		return nil, err
	}
	recent, err := recentBookings(snap, q)
	if err != nil {
		return nil, err
	}

	return &Result{
		Currency:            q.DisplayCurrency,
		AsOf:                asOf,
		KPI:                 kpi,
		MonthlyRevenue:      revenueSeries,
		MonthlyExpense:      expenseSeries,
		ExpenseCategories:   categories,
		VehicleRanking:      ranking,
		FleetDistribution:   fleetDistribution(snap.Vehicles),
		CapacityComparison:  comparison,
		OutstandingPayments: outstanding,
		RecentBookings:      recent,
	}, nil
}
