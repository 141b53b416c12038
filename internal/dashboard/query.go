package dashboard

import (
	"fmt"
	"time"
)

// WindowMode selects how a chart-level time window is expanded.
type WindowMode string

const (
	ModeYear     WindowMode = "year"
	ModeQuarter  WindowMode = "quarter"
	ModeMonth    WindowMode = "month"
	ModeSpecific WindowMode = "specific"
	ModeAll      WindowMode = "all"
)

// ChartWindow is one independent chart-level time-window selector. Each
// chart owns its state; none of them is slaved to the global filter, so a
// user can read the global KPI for one month while a chart spans the year.
type ChartWindow struct {
	Mode   WindowMode
	Months []time.Month
	Year   int
}

// GlobalWindow is the single dashboard-wide filter: a specific month of a
// year, or everything when Month is nil.
type GlobalWindow struct {
	Month *time.Month
	Year  int
}

// All reports whether date filtering is disabled.
func (g GlobalWindow) All() bool {
	return g.Month == nil
}

// Range expands a specific month selection into the half-open instant range
// [first of month, first of next month). ok is false when filtering is off.
func (g GlobalWindow) Range() (start, end time.Time, ok bool) {
	if g.Month == nil {
		return time.Time{}, time.Time{}, false
	}
	start = time.Date(g.Year, *g.Month, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0), true
}

// Query is the full immutable input selector for one computation. AsOf
// carries the "current" instant so identical queries replay identically.
type Query struct {
	DisplayCurrency string
	AsOf            time.Time

	Global GlobalWindow

	RevenueWindow  ChartWindow
	ExpenseWindow  ChartWindow
	CategoryWindow ChartWindow
	RankingWindow  ChartWindow
	CapacityWindow ChartWindow

	// RankingCapacity narrows the vehicle ranking to one capacity class.
	// Empty means all classes.
	RankingCapacity CapacityClass

	// RecentLimit caps the recent-bookings widget. Zero means the default.
	RecentLimit int
}

const defaultRecentLimit = 5

// Validate rejects queries the engine cannot evaluate deterministically.
func (q Query) Validate() error {
	if q.DisplayCurrency == "" {
		return fmt.Errorf("dashboard: display currency required")
	}
	if q.Global.Month != nil {
		if *q.Global.Month < time.January || *q.Global.Month > time.December {
			return fmt.Errorf("dashboard: global month out of range")
		}
		if q.Global.Year <= 0 {
			return fmt.Errorf("dashboard: global year required with month filter")
		}
	}
	for _, w := range []ChartWindow{q.RevenueWindow, q.ExpenseWindow, q.CategoryWindow, q.RankingWindow, q.CapacityWindow} {
		switch w.Mode {
		case "", ModeYear, ModeQuarter, ModeMonth, ModeAll:
		case ModeSpecific:
			if len(w.Months) == 0 {
				return fmt.Errorf("dashboard: specific window needs months")
			}
			for _, m := range w.Months {
				if m < time.January || m > time.December {
					return fmt.Errorf("dashboard: specific window month out of range")
				}
			}
		default:
			return fmt.Errorf("dashboard: unknown window mode %q", w.Mode)
		}
	}
	switch q.RankingCapacity {
	case "", CapacitySevenSeater, CapacityFiveSeater, CapacityOther:
	default:
		return fmt.Errorf("dashboard: unknown capacity class %q", q.RankingCapacity)
	}
	return nil
}

func (q Query) recentLimit() int {
	if q.RecentLimit > 0 {
		return q.RecentLimit
	}
	return defaultRecentLimit
}
