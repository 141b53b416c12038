package dashboard

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/tembo-ops/tembo-ops/internal/booking"
	"github.com/tembo-ops/tembo-ops/internal/finance"
	"github.com/tembo-ops/tembo-ops/internal/fleet"
	"github.com/tembo-ops/tembo-ops/internal/fx"
)

type memorySources struct {
	vehicles []fleet.Vehicle
	bookings []booking.Booking
	rates    fx.RateTable
	loads    int
}

func (m *memorySources) ListVehicles(ctx context.Context) ([]fleet.Vehicle, error) {
	m.loads++
	return m.vehicles, nil
}

func (m *memorySources) ListRepairs(ctx context.Context) ([]fleet.Repair, error) {
	return nil, nil
}

func (m *memorySources) ListBookings(ctx context.Context) ([]booking.Booking, error) {
	return m.bookings, nil
}

func (m *memorySources) ListSafariTrips(ctx context.Context) ([]booking.SafariTrip, error) {
	return nil, nil
}

func (m *memorySources) ListTransactions(ctx context.Context) ([]finance.Transaction, error) {
	return nil, nil
}

func (m *memorySources) ListRequisitions(ctx context.Context) ([]finance.CashRequisition, error) {
	return nil, nil
}

func (m *memorySources) Snapshot(ctx context.Context) (fx.RateTable, error) {
	return m.rates, nil
}

func newCachedService(t *testing.T, src *memorySources) *Service {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	cache := NewCache(client, time.Minute)
	svc := NewService(src, src, src, src, cache)
	svc.WithNow(func() time.Time { return augustAsOf })
	return svc
}

func TestGetDashboardCachesResult(t *testing.T) {
	date := augustAsOf.AddDate(0, 0, -1)
	src := &memorySources{
		rates:    testRates(),
		bookings: []booking.Booking{paidBooking(booking.StatusCompleted, 100, 100, "USD", date)},
	}
	svc := newCachedService(t, src)
	ctx := context.Background()

	result, err := svc.GetDashboard(ctx, Query{DisplayCurrency: "USD"})
	require.NoError(t, err)
	require.Equal(t, 100.0, result.KPI.Revenue)
	require.Equal(t, 1, src.loads)

	// Second identical query is served from cache.
	result, err = svc.GetDashboard(ctx, Query{DisplayCurrency: "USD"})
	require.NoError(t, err)
	require.Equal(t, 100.0, result.KPI.Revenue)
	require.Equal(t, 1, src.loads)

	// A bump discards every cached dashboard.
	require.NoError(t, svc.Invalidate(ctx))
	src.bookings[0].AmountPaid = 150
	result, err = svc.GetDashboard(ctx, Query{DisplayCurrency: "USD"})
	require.NoError(t, err)
	require.Equal(t, 150.0, result.KPI.Revenue)
	require.Equal(t, 2, src.loads)
}

func TestGetDashboardDistinctQueriesDistinctKeys(t *testing.T) {
	date := augustAsOf.AddDate(0, 0, -1)
	src := &memorySources{
		rates:    fx.RateTable{"USD": 1, "UGX": 3700},
		bookings: []booking.Booking{paidBooking(booking.StatusCompleted, 100, 100, "USD", date)},
	}
	svc := newCachedService(t, src)
	ctx := context.Background()

	usd, err := svc.GetDashboard(ctx, Query{DisplayCurrency: "USD"})
	require.NoError(t, err)
	ugx, err := svc.GetDashboard(ctx, Query{DisplayCurrency: "UGX"})
	require.NoError(t, err)
	require.Equal(t, 100.0, usd.KPI.Revenue)
	require.Equal(t, 370000.0, ugx.KPI.Revenue)
	require.Equal(t, 2, src.loads, "different display currencies must not share cache entries")
}

func TestGetDashboardPropagatesCurrencyError(t *testing.T) {
	src := &memorySources{rates: fx.RateTable{"USD": 1}}
	svc := NewService(src, src, src, src, nil)
	svc.WithNow(func() time.Time { return augustAsOf })

	_, err := svc.GetDashboard(context.Background(), Query{DisplayCurrency: "KES"})
	require.Error(t, err)
	var unknown *fx.UnknownCurrencyError
	require.ErrorAs(t, err, &unknown)
}

func TestGetDashboardValidatesQuery(t *testing.T) {
	src := &memorySources{rates: testRates()}
	svc := NewService(src, src, src, src, nil)
	_, err := svc.GetDashboard(context.Background(), Query{})
	require.Error(t, err)
}
