package dashboard

import (
	"sort"
	"time"

	"github.com/tembo-ops/tembo-ops/internal/booking"
	"github.com/tembo-ops/tembo-ops/internal/finance"
)

// resolveWindow expands a chart window into the concrete year and month set
// used for bucketing. Year, quarter and month modes always anchor on the
// current calendar year from asOf, not any filter year; only the specific
// mode honours an explicit year. An empty or "all" mode behaves like year.
func resolveWindow(w ChartWindow, asOf time.Time) (int, []time.Month) {
	year := asOf.Year()
	switch w.Mode {
	case ModeMonth:
		return year, []time.Month{asOf.Month()}
	case ModeQuarter:
		first := time.Month((int(asOf.Month())-1)/3*3 + 1)
		return year, []time.Month{first, first + 1, first + 2}
	case ModeSpecific:
		if w.Year > 0 {
			year = w.Year
		}
		months := make([]time.Month, 0, len(w.Months))
		seen := make(map[time.Month]struct{}, len(w.Months))
		for _, m := range w.Months {
			if _, dup := seen[m]; dup {
				continue
			}
			seen[m] = struct{}{}
			months = append(months, m)
		}
		sort.Slice(months, func(i, j int) bool { return months[i] < months[j] })
		return year, months
	default: // ModeYear, ModeAll, ""
		return year, []time.Month{
			time.January, time.February, time.March, time.April,
			time.May, time.June, time.July, time.August,
			time.September, time.October, time.November, time.December,
		}
	}
}

// inMonth reports whether t falls in the given month of the given year.
// Zero instants never match: a record with no usable date is excluded from
// date-bucketed views instead of failing the whole aggregation.
func inMonth(t time.Time, year int, month time.Month) bool {
	if t.IsZero() {
		return false
	}
	return t.Year() == year && t.Month() == month
}

// inRange reports whether t falls in the half-open range [start, end).
func inRange(t time.Time, start, end time.Time) bool {
	if t.IsZero() {
		return false
	}
	return !t.Before(start) && t.Before(end)
}

// Bucketing dates per record type. Each falls back to the creation instant
// when the primary date is absent, and yields zero (excluded) when neither
// is usable.

func bookingDate(b booking.Booking) time.Time {
	if !b.StartDate.IsZero() {
		return b.StartDate
	}
	return b.CreatedAt
}

func safariDate(t booking.SafariTrip) time.Time {
	if !t.StartDate.IsZero() {
		return t.StartDate
	}
	return t.CreatedAt
}

func transactionDate(t finance.Transaction) time.Time {
	if !t.TransactionDate.IsZero() {
		return t.TransactionDate
	}
	return t.CreatedAt
}

func requisitionDate(cr finance.CashRequisition) time.Time {
	if cr.DateCompleted != nil && !cr.DateCompleted.IsZero() {
		return *cr.DateCompleted
	}
	return cr.CreatedAt
}
