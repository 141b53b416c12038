package dashboard

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tembo-ops/tembo-ops/internal/booking"
	"github.com/tembo-ops/tembo-ops/internal/finance"
	"github.com/tembo-ops/tembo-ops/internal/fleet"
	"github.com/tembo-ops/tembo-ops/internal/fx"
)

// FleetSource supplies the fleet collections.
type FleetSource interface {
	ListVehicles(ctx context.Context) ([]fleet.Vehicle, error)
	ListRepairs(ctx context.Context) ([]fleet.Repair, error)
}

// BookingSource supplies rental bookings and safari trips.
type BookingSource interface {
	ListBookings(ctx context.Context) ([]booking.Booking, error)
	ListSafariTrips(ctx context.Context) ([]booking.SafariTrip, error)
}

// LedgerSource supplies the two expense ledgers.
type LedgerSource interface {
	ListTransactions(ctx context.Context) ([]finance.Transaction, error)
	ListRequisitions(ctx context.Context) ([]finance.CashRequisition, error)
}

// RateSource supplies the current exchange-rate snapshot.
type RateSource interface {
	Snapshot(ctx context.Context) (fx.RateTable, error)
}

// Service loads collection snapshots and evaluates the engine behind a
// cache-aware lookup.
type Service struct {
	fleet    FleetSource
	bookings BookingSource
	ledgers  LedgerSource
	rates    RateSource
	cache    *Cache
	now      func() time.Time
}

// NewService wires the data sources with a Cache helper.
func NewService(fleetSrc FleetSource, bookingSrc BookingSource, ledgerSrc LedgerSource, rateSrc RateSource, cache *Cache) *Service {
	return &Service{
		fleet:    fleetSrc,
		bookings: bookingSrc,
		ledgers:  ledgerSrc,
		rates:    rateSrc,
		cache:    cache,
		now:      time.Now,
	}
}

// WithNow overrides the service clock for testing.
func (s *Service) WithNow(fn func() time.Time) {
	if fn != nil {
		s.now = fn
	}
}

// LoadSnapshot fans out over the data sources and assembles one immutable
// snapshot for the engine.
func (s *Service) LoadSnapshot(ctx context.Context) (Snapshot, error) {
	var snap Snapshot
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		vehicles, err := s.fleet.ListVehicles(ctx)
		snap.Vehicles = vehicles
		return err
	})
	g.Go(func() error {
		repairs, err := s.fleet.ListRepairs(ctx)
		snap.Repairs = repairs
		return err
	})
	g.Go(func() error {
		bookings, err := s.bookings.ListBookings(ctx)
		snap.Bookings = bookings
		return err
	})
	g.Go(func() error {
		trips, err := s.bookings.ListSafariTrips(ctx)
		snap.SafariTrips = trips
		return err
	})
	g.Go(func() error {
		txns, err := s.ledgers.ListTransactions(ctx)
		snap.Transactions = txns
		return err
	})
	g.Go(func() error {
		crs, err := s.ledgers.ListRequisitions(ctx)
		snap.Requisitions = crs
		return err
	})
	g.Go(func() error {
		rates, err := s.rates.Snapshot(ctx)
		snap.Rates = rates
		return err
	})
	if err := g.Wait(); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

// GetDashboard resolves the dashboard result using cache-aware lookups.
// AsOf is pinned to the start of the current UTC day when unset so that
// cache keys stay stable within a day; version bumps handle data changes.
func (s *Service) GetDashboard(ctx context.Context, q Query) (*Result, error) {
	if q.AsOf.IsZero() {
		q.AsOf = s.now().UTC().Truncate(24 * time.Hour)
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}

	loader := func(ctx context.Context) (interface{}, error) {
		snap, err := s.LoadSnapshot(ctx)
		if err != nil {
			return nil, err
		}
		return Compute(snap, q)
	}

	if s.cache == nil {
		value, err := loader(ctx)
		if err != nil {
			return nil, err
		}
		return value.(*Result), nil
	}

	key, err := s.cache.BuildKey(ctx, keyResult(q)...)
	if err != nil {
		return nil, err
	}
	var result Result
	if err := s.cache.FetchJSON(ctx, key, &result, loader); err != nil {
		return nil, err
	}
	return &result, nil
}

// Invalidate bumps the cache version, discarding every cached dashboard.
func (s *Service) Invalidate(ctx context.Context) error {
	return s.cache.Bump(ctx)
}
