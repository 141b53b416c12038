package booking

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository provides PostgreSQL backed persistence for bookings.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListBookings returns all rental bookings, newest first.
func (r *Repository) ListBookings(ctx context.Context) ([]Booking, error) {
	const query = `
		SELECT id, vehicle_id, client_id, user_id, status, start_date, end_date,
		       amount_paid, total_amount, currency, created_at
		FROM bookings
		ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []Booking
	for rows.Next() {
		var b Booking
		if err := rows.Scan(&b.ID, &b.VehicleID, &b.ClientID, &b.UserID, &b.Status, &b.StartDate, &b.EndDate,
			&b.AmountPaid, &b.TotalAmount, &b.Currency, &b.CreatedAt); err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

// ListSafariTrips returns all safari trip records, newest first.
func (r *Repository) ListSafariTrips(ctx context.Context) ([]SafariTrip, error) {
	const query = `
		SELECT id, vehicle_id, start_date, end_date, price_usd, price_local,
		       expenses_usd, expenses_local, vehicle_hire_cost_usd, created_at
		FROM safari_trips
		ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trips []SafariTrip
	for rows.Next() {
		var trip SafariTrip
		if err := rows.Scan(&trip.ID, &trip.VehicleID, &trip.StartDate, &trip.EndDate, &trip.PriceUSD, &trip.PriceLocal,
			&trip.ExpensesUSD, &trip.ExpensesLocal, &trip.VehicleHireCostUSD, &trip.CreatedAt); err != nil {
			return nil, err
		}
		trips = append(trips, trip)
	}
	return trips, rows.Err()
}
