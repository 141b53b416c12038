package dashboard

import (
	"sort"

	"github.com/tembo-ops/tembo-ops/internal/booking"
	"github.com/tembo-ops/tembo-ops/internal/fx"
)

// outstandingPayments lists pending bookings with money still owed, under
// the global filter, ordered by largest balance first.
func outstandingPayments(snap Snapshot, q Query) ([]OutstandingPayment, error) {
	accept := acceptFn(acceptAll)
	if start, end, ok := q.Global.Range(); ok {
		accept = acceptRange(start, end)
	}
	out := make([]OutstandingPayment, 0)
	for _, b := range snap.Bookings {
		if b.Status != booking.StatusPending || !accept(bookingDate(b)) {
			continue
		}
		if b.TotalAmount-b.AmountPaid <= 0 {
			continue
		}
		row := OutstandingPayment{
			BookingID: b.ID,
			VehicleID: b.VehicleID,
			ClientID:  b.ClientID,
			StartDate: b.StartDate,
		}
		for _, conv := range []struct {
			dst *float64
			src float64
		}{
			{&row.TotalAmount, b.TotalAmount},
			{&row.AmountPaid, b.AmountPaid},
		} {
			display, err := snap.Rates.Convert(fx.Money{Amount: conv.src, Currency: b.Currency}, q.DisplayCurrency)
			if err != nil {
				return nil, err
			}
			*conv.dst = display.Amount
		}
		row.Balance = row.TotalAmount - row.AmountPaid
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Balance != out[j].Balance {
			return out[i].Balance > out[j].Balance
		}
		return out[i].BookingID.String() < out[j].BookingID.String()
	})
	return out, nil
}

// recentBookings projects the latest bookings by creation time for the
// recent-activity widget. It always reads the full set: recent activity is
// recent regardless of the global filter.
func recentBookings(snap Snapshot, q Query) ([]RecentBooking, error) {
	ordered := make([]booking.Booking, len(snap.Bookings))
	copy(ordered, snap.Bookings)
	sort.Slice(ordered, func(i, j int) bool {
		if !ordered[i].CreatedAt.Equal(ordered[j].CreatedAt) {
			return ordered[i].CreatedAt.After(ordered[j].CreatedAt)
		}
		return ordered[i].ID.String() < ordered[j].ID.String()
	})
	limit := q.recentLimit()
	if limit > len(ordered) {
		limit = len(ordered)
	}
	out := make([]RecentBooking, 0, limit)
	for _, b := range ordered[:limit] {
		display, err := snap.Rates.Convert(fx.Money{Amount: b.TotalAmount, Currency: b.Currency}, q.DisplayCurrency)
		if err != nil {
			return nil, err
		}
		out = append(out, RecentBooking{
			BookingID:   b.ID,
			VehicleID:   b.VehicleID,
			Status:      b.Status,
			TotalAmount: display.Amount,
			CreatedAt:   b.CreatedAt,
		})
	}
	return out, nil
}
