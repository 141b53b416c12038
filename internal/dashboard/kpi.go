package dashboard

import (
	"math"
	"time"

	"github.com/tembo-ops/tembo-ops/internal/booking"
	"github.com/tembo-ops/tembo-ops/internal/finance"
	"github.com/tembo-ops/tembo-ops/internal/fleet"
)

// acceptFn decides whether a record's bucketing date falls inside the
// active filter. acceptAll is used when the global filter is "all": every
// record counts, including ones with no usable date.
type acceptFn func(time.Time) bool

func acceptAll(time.Time) bool { return true }

func acceptRange(start, end time.Time) acceptFn {
	return func(t time.Time) bool { return inRange(t, start, end) }
}

// revenueBase sums recognised revenue in the base currency over the
// accepted records: eligible booking payments, the clamped safari profit,
// and income-type ledger entries.
func revenueBase(snap Snapshot, accept acceptFn) (float64, error) {
	var total float64
	for _, b := range snap.Bookings {
		if !revenueEligible(b) || !accept(bookingDate(b)) {
			continue
		}
		base, err := snap.Rates.ToBase(b.AmountPaid, b.Currency)
		if err != nil {
			return 0, err
		}
		total += base
	}

	// Safari profit is derived from the USD leg of the dual-currency
	// fields, so it is already in base. The sum is clamped at zero: a
	// loss-making period of trips never subtracts from rental revenue.
	var safari float64
	for _, trip := range snap.SafariTrips {
		if !accept(safariDate(trip)) {
			continue
		}
		safari += trip.PriceUSD - (trip.ExpensesUSD + trip.VehicleHireCostUSD)
	}
	if safari > 0 {
		total += safari
	}

	for _, t := range snap.Transactions {
		if t.Type != finance.TypeIncome || t.Status == finance.TxnStatusCancelled {
			continue
		}
		if !accept(transactionDate(t)) {
			continue
		}
		base, err := snap.Rates.ToBase(t.Amount, t.Currency)
		if err != nil {
			return 0, err
		}
		total += base
	}
	return total, nil
}

// expenseBase sums reconciled expenses in the base currency: valid cash
// requisitions plus ledger expenses not linked to a counted requisition.
func expenseBase(snap Snapshot, known map[string]struct{}, accept acceptFn) (float64, error) {
	var total float64
	for _, cr := range snap.Requisitions {
		if !validExpenseCR(cr) || !accept(requisitionDate(cr)) {
			continue
		}
		amount, err := crBaseAmount(cr, snap.Rates)
		if err != nil {
			return 0, err
		}
		total += amount
	}
	for _, t := range snap.Transactions {
		if !countableExpenseTxn(t, known) || !accept(transactionDate(t)) {
			continue
		}
		base, err := snap.Rates.ToBase(t.Amount, t.Currency)
		if err != nil {
			return 0, err
		}
		total += base
	}
	return total, nil
}

// fleetUtilization is the share of vehicles currently in the booked status,
// as a rounded percentage. Only the literal booked status counts; rented is
// a different lifecycle state and is excluded by the business rule. An
// empty fleet yields zero, never NaN.
func fleetUtilization(vehicles []fleet.Vehicle) int {
	if len(vehicles) == 0 {
		return 0
	}
	booked := 0
	for _, v := range vehicles {
		if v.Status == fleet.StatusBooked {
			booked++
		}
	}
	return int(math.Round(float64(booked) / float64(len(vehicles)) * 100))
}

// computeKPI builds the scalar KPI bundle for the global filter.
func computeKPI(snap Snapshot, q Query, known map[string]struct{}, asOf time.Time) (KPIBundle, error) {
	accept := acceptFn(acceptAll)
	if start, end, ok := q.Global.Range(); ok {
		accept = acceptRange(start, end)
	}

	revenue, err := revenueBase(snap, accept)
	if err != nil {
		return KPIBundle{}, err
	}
	expenses, err := expenseBase(snap, known, accept)
	if err != nil {
		return KPIBundle{}, err
	}

	// MTD/YTD are only distinct when no specific month is selected. With a
	// month filter active the source collapses both to the filtered total,
	// and that coupling is replicated here rather than "fixed".
	mtd, ytd := revenue, revenue
	if q.Global.All() {
		monthStart := time.Date(asOf.Year(), asOf.Month(), 1, 0, 0, 0, 0, time.UTC)
		mtd, err = revenueBase(snap, acceptRange(monthStart, monthStart.AddDate(0, 1, 0)))
		if err != nil {
			return KPIBundle{}, err
		}
		yearStart := time.Date(asOf.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
		ytd, err = revenueBase(snap, acceptRange(yearStart, yearStart.AddDate(1, 0, 0)))
		if err != nil {
			return KPIBundle{}, err
		}
	}

	// Active bookings ignore the global date filter on purpose: the card
	// answers "how many are active right now", not "in the filtered month".
	active := 0
	for _, b := range snap.Bookings {
		if activeStatus(b.Status) {
			active++
		}
	}

	var outstandingBase float64
	outstandingCount := 0
	for _, b := range snap.Bookings {
		if b.Status != booking.StatusPending || !accept(bookingDate(b)) {
			continue
		}
		balance := b.TotalAmount - b.AmountPaid
		if balance <= 0 {
			continue
		}
		base, err := snap.Rates.ToBase(balance, b.Currency)
		if err != nil {
			return KPIBundle{}, err
		}
		outstandingBase += base
		outstandingCount++
	}

	// Average booking value spans all bookings regardless of filter.
	var avgBase float64
	if len(snap.Bookings) > 0 {
		var sum float64
		for _, b := range snap.Bookings {
			base, err := snap.Rates.ToBase(b.TotalAmount, b.Currency)
			if err != nil {
				return KPIBundle{}, err
			}
			sum += base
		}
		avgBase = sum / float64(len(snap.Bookings))
	}

	bundle := KPIBundle{
		FleetUtilizationPct: fleetUtilization(snap.Vehicles),
		TotalVehicles:       len(snap.Vehicles),
		ActiveBookings:      active,
		OutstandingCount:    outstandingCount,
	}
	for _, conv := range []struct {
		dst *float64
		src float64
	}{
		{&bundle.Revenue, revenue},
		{&bundle.Expenses, expenses},
		{&bundle.RevenueMTD, mtd},
		{&bundle.RevenueYTD, ytd},
		{&bundle.OutstandingAmount, outstandingBase},
		{&bundle.AverageBookingValue, avgBase},
	} {
		value, err := snap.Rates.FromBase(conv.src, q.DisplayCurrency)
		if err != nil {
			return KPIBundle{}, err
		}
		*conv.dst = value
	}
	bundle.NetProfit = bundle.Revenue - bundle.Expenses
	return bundle, nil
}
