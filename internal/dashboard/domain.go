package dashboard

import (
	"time"

	"github.com/google/uuid"

	"github.com/tembo-ops/tembo-ops/internal/booking"
	"github.com/tembo-ops/tembo-ops/internal/finance"
	"github.com/tembo-ops/tembo-ops/internal/fleet"
	"github.com/tembo-ops/tembo-ops/internal/fx"
)

// Snapshot is one immutable set of raw collections plus the rate table in
// force for a single computation. The engine never mutates it.
type Snapshot struct {
	Vehicles     []fleet.Vehicle
	Repairs      []fleet.Repair
	Bookings     []booking.Booking
	SafariTrips  []booking.SafariTrip
	Transactions []finance.Transaction
	Requisitions []finance.CashRequisition
	Rates        fx.RateTable
}

// KPIBundle carries the scalar indicators on the dashboard header. All
// monetary values are in the result's display currency.
type KPIBundle struct {
	Revenue             float64 `json:"revenue"`
	Expenses            float64 `json:"expenses"`
	NetProfit           float64 `json:"net_profit"`
	RevenueMTD          float64 `json:"revenue_mtd"`
	RevenueYTD          float64 `json:"revenue_ytd"`
	FleetUtilizationPct int     `json:"fleet_utilization_pct"`
	TotalVehicles       int     `json:"total_vehicles"`
	ActiveBookings      int     `json:"active_bookings"`
	OutstandingAmount   float64 `json:"outstanding_amount"`
	OutstandingCount    int     `json:"outstanding_count"`
	AverageBookingValue float64 `json:"average_booking_value"`
}

// SeriesPoint is one month bucket of a chart series.
type SeriesPoint struct {
	Year   int     `json:"year"`
	Month  int     `json:"month"`
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
}

// CategoryTotal is one canonical expense bucket.
type CategoryTotal struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}

// VehicleRevenue ranks one vehicle by revenue earned in a window.
type VehicleRevenue struct {
	VehicleID uuid.UUID     `json:"vehicle_id"`
	Plate     string        `json:"plate"`
	Name      string        `json:"name"`
	Capacity  CapacityClass `json:"capacity"`
	Revenue   float64       `json:"revenue"`
	Trips     int           `json:"trips"`
}

// StatusCount is one fleet-status bucket.
type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// CapacityClassStats compares one capacity class against the others.
type CapacityClassStats struct {
	Class             CapacityClass    `json:"class"`
	VehicleCount      int              `json:"vehicle_count"`
	Revenue           float64          `json:"revenue"`
	Trips             int              `json:"trips"`
	AvgRevenuePerTrip float64          `json:"avg_revenue_per_trip"`
	AvgPerVehicle     float64          `json:"avg_revenue_per_vehicle"`
	Vehicles          []VehicleRevenue `json:"vehicles"`
}

// OutstandingPayment is one pending booking with money still owed.
type OutstandingPayment struct {
	BookingID   uuid.UUID  `json:"booking_id"`
	VehicleID   *uuid.UUID `json:"vehicle_id,omitempty"`
	ClientID    *uuid.UUID `json:"client_id,omitempty"`
	TotalAmount float64    `json:"total_amount"`
	AmountPaid  float64    `json:"amount_paid"`
	Balance     float64    `json:"balance"`
	StartDate   time.Time  `json:"start_date"`
}

// RecentBooking is one row of the recent-activity widget.
type RecentBooking struct {
	BookingID   uuid.UUID      `json:"booking_id"`
	VehicleID   *uuid.UUID     `json:"vehicle_id,omitempty"`
	Status      booking.Status `json:"status"`
	TotalAmount float64        `json:"total_amount"`
	CreatedAt   time.Time      `json:"created_at"`
}

// Result is the complete dashboard payload. It is produced fresh on every
// computation and replaced wholesale, never mutated in place.
type Result struct {
	Currency            string               `json:"currency"`
	AsOf                time.Time            `json:"as_of"`
	KPI                 KPIBundle            `json:"kpi"`
	MonthlyRevenue      []SeriesPoint        `json:"monthly_revenue"`
	MonthlyExpense      []SeriesPoint        `json:"monthly_expense"`
	ExpenseCategories   []CategoryTotal      `json:"expense_categories"`
	VehicleRanking      []VehicleRevenue     `json:"vehicle_ranking"`
	FleetDistribution   []StatusCount        `json:"fleet_distribution"`
	CapacityComparison  []CapacityClassStats `json:"capacity_comparison"`
	OutstandingPayments []OutstandingPayment `json:"outstanding_payments"`
	RecentBookings      []RecentBooking      `json:"recent_bookings"`
}
