package dashboard

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/tembo-ops/tembo-ops/internal/fleet"
)

// The chart builders work from the full unfiltered collections under each
// chart's own resolved window, never from the globally filtered sets: the
// global KPI filter and the chart windows are independent by design.

func acceptMonth(year int, month time.Month) acceptFn {
	return func(t time.Time) bool { return inMonth(t, year, month) }
}

func acceptMonths(year int, months []time.Month) acceptFn {
	set := make(map[time.Month]struct{}, len(months))
	for _, m := range months {
		set[m] = struct{}{}
	}
	return func(t time.Time) bool {
		if t.IsZero() || t.Year() != year {
			return false
		}
		_, ok := set[t.Month()]
		return ok
	}
}

func monthLabel(m time.Month) string {
	return m.String()[:3]
}

// monthlyRevenueSeries recomputes recognised revenue per month of the
// revenue chart's window.
func monthlyRevenueSeries(snap Snapshot, q Query, asOf time.Time) ([]SeriesPoint, error) {
	year, months := resolveWindow(q.RevenueWindow, asOf)
	points := make([]SeriesPoint, 0, len(months))
	for _, month := range months {
		base, err := revenueBase(snap, acceptMonth(year, month))
		if err != nil {
			return nil, err
		}
		amount, err := snap.Rates.FromBase(base, q.DisplayCurrency)
		if err != nil {
			return nil, err
		}
		points = append(points, SeriesPoint{Year: year, Month: int(month), Label: monthLabel(month), Amount: amount})
	}
	return points, nil
}

// monthlyExpenseSeries recomputes reconciled expenses per month of the
// expense chart's window.
func monthlyExpenseSeries(snap Snapshot, known map[string]struct{}, q Query, asOf time.Time) ([]SeriesPoint, error) {
	year, months := resolveWindow(q.ExpenseWindow, asOf)
	points := make([]SeriesPoint, 0, len(months))
	for _, month := range months {
		base, err := expenseBase(snap, known, acceptMonth(year, month))
		if err != nil {
			return nil, err
		}
		amount, err := snap.Rates.FromBase(base, q.DisplayCurrency)
		if err != nil {
			return nil, err
		}
		points = append(points, SeriesPoint{Year: year, Month: int(month), Label: monthLabel(month), Amount: amount})
	}
	return points, nil
}

// categoryBreakdown sums reconciled expenses per canonical category over
// the category chart's window, drops empty buckets and sorts descending.
func categoryBreakdown(snap Snapshot, known map[string]struct{}, q Query, asOf time.Time) ([]CategoryTotal, error) {
	accept := acceptMonths(resolveWindow(q.CategoryWindow, asOf))
	totals := make(map[string]float64, 5)

	for _, cr := range snap.Requisitions {
		if !validExpenseCR(cr) || !accept(requisitionDate(cr)) {
			continue
		}
		amount, err := crBaseAmount(cr, snap.Rates)
		if err != nil {
			return nil, err
		}
		totals[classifyCategory(cr.ExpenseCategory)] += amount
	}
	for _, t := range snap.Transactions {
		if !countableExpenseTxn(t, known) || !accept(transactionDate(t)) {
			continue
		}
		base, err := snap.Rates.ToBase(t.Amount, t.Currency)
		if err != nil {
			return nil, err
		}
		totals[classifyCategory(t.Category)] += base
	}

	out := make([]CategoryTotal, 0, len(totals))
	for category, base := range totals {
		if base == 0 {
			continue
		}
		amount, err := snap.Rates.FromBase(base, q.DisplayCurrency)
		if err != nil {
			return nil, err
		}
		out = append(out, CategoryTotal{Category: category, Amount: amount})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Amount != out[j].Amount {
			return out[i].Amount > out[j].Amount
		}
		return out[i].Category < out[j].Category
	})
	return out, nil
}

// vehicleStats accumulates per-vehicle revenue over eligible bookings in a
// window. Bookings without an assigned vehicle, or pointing at a vehicle
// missing from the snapshot, are unattributed and excluded here while still
// counting in the scalar totals.
func vehicleStats(snap Snapshot, accept acceptFn) (map[uuid.UUID]*VehicleRevenue, error) {
	byID := make(map[uuid.UUID]fleet.Vehicle, len(snap.Vehicles))
	for _, v := range snap.Vehicles {
		byID[v.ID] = v
	}
	stats := make(map[uuid.UUID]*VehicleRevenue)
	for _, b := range snap.Bookings {
		if !revenueEligible(b) || !accept(bookingDate(b)) || b.VehicleID == nil {
			continue
		}
		vehicle, ok := byID[*b.VehicleID]
		if !ok {
			continue
		}
		base, err := snap.Rates.ToBase(b.AmountPaid, b.Currency)
		if err != nil {
			return nil, err
		}
		entry := stats[vehicle.ID]
		if entry == nil {
			entry = &VehicleRevenue{
				VehicleID: vehicle.ID,
				Plate:     vehicle.Plate,
				Name:      vehicle.Make + " " + vehicle.Model,
				Capacity:  classifyCapacity(vehicle.Capacity),
			}
			stats[vehicle.ID] = entry
		}
		entry.Revenue += base
		entry.Trips++
	}
	return stats, nil
}

// vehicleRanking orders vehicles by revenue earned in the ranking chart's
// window, optionally narrowed to one capacity class.
func vehicleRanking(snap Snapshot, q Query, asOf time.Time) ([]VehicleRevenue, error) {
	stats, err := vehicleStats(snap, acceptMonths(resolveWindow(q.RankingWindow, asOf)))
	if err != nil {
		return nil, err
	}
	ranking := make([]VehicleRevenue, 0, len(stats))
	for _, entry := range stats {
		if q.RankingCapacity != "" && entry.Capacity != q.RankingCapacity {
			continue
		}
		amount, err := snap.Rates.FromBase(entry.Revenue, q.DisplayCurrency)
		if err != nil {
			return nil, err
		}
		row := *entry
		row.Revenue = amount
		ranking = append(ranking, row)
	}
	sort.Slice(ranking, func(i, j int) bool {
		if ranking[i].Revenue != ranking[j].Revenue {
			return ranking[i].Revenue > ranking[j].Revenue
		}
		return ranking[i].Plate < ranking[j].Plate
	})
	return ranking, nil
}

// fleetDistribution buckets the fleet into available, hired and
// maintenance. Booked vehicles report as hired; out-of-service vehicles
// fold into maintenance. Empty buckets are dropped.
func fleetDistribution(vehicles []fleet.Vehicle) []StatusCount {
	available, hired, maintenance := 0, 0, 0
	for _, v := range vehicles {
		switch v.Status {
		case fleet.StatusAvailable:
			available++
		case fleet.StatusBooked:
			hired++
		case fleet.StatusMaintenance, fleet.StatusOutOfService:
			maintenance++
		}
	}
	out := make([]StatusCount, 0, 3)
	for _, bucket := range []StatusCount{
		{Status: "Available", Count: available},
		{Status: "Hired", Count: hired},
		{Status: "Maintenance", Count: maintenance},
	} {
		if bucket.Count > 0 {
			out = append(out, bucket)
		}
	}
	return out
}

// capacityComparison splits eligible-booking revenue by capacity class. All
// three classes are always reported so the per-class vehicle counts sum to
// the fleet size.
func capacityComparison(snap Snapshot, q Query, asOf time.Time) ([]CapacityClassStats, error) {
	stats, err := vehicleStats(snap, acceptMonths(resolveWindow(q.CapacityWindow, asOf)))
	if err != nil {
		return nil, err
	}

	classes := []CapacityClass{CapacitySevenSeater, CapacityFiveSeater, CapacityOther}
	byClass := make(map[CapacityClass]*CapacityClassStats, len(classes))
	out := make([]CapacityClassStats, len(classes))
	for i, class := range classes {
		out[i] = CapacityClassStats{Class: class, Vehicles: []VehicleRevenue{}}
		byClass[class] = &out[i]
	}

	for _, v := range snap.Vehicles {
		byClass[classifyCapacity(v.Capacity)].VehicleCount++
	}

	for _, entry := range stats {
		amount, err := snap.Rates.FromBase(entry.Revenue, q.DisplayCurrency)
		if err != nil {
			return nil, err
		}
		row := *entry
		row.Revenue = amount
		cls := byClass[entry.Capacity]
		cls.Revenue += amount
		cls.Trips += row.Trips
		cls.Vehicles = append(cls.Vehicles, row)
	}

	for i := range out {
		cls := &out[i]
		sort.Slice(cls.Vehicles, func(a, b int) bool {
			if cls.Vehicles[a].Revenue != cls.Vehicles[b].Revenue {
				return cls.Vehicles[a].Revenue > cls.Vehicles[b].Revenue
			}
			return cls.Vehicles[a].Plate < cls.Vehicles[b].Plate
		})
		if cls.Trips > 0 {
			cls.AvgRevenuePerTrip = cls.Revenue / float64(cls.Trips)
		}
		if cls.VehicleCount > 0 {
			cls.AvgPerVehicle = cls.Revenue / float64(cls.VehicleCount)
		}
	}
	return out, nil
}
