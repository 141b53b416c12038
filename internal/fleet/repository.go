package fleet

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository provides PostgreSQL backed persistence for the fleet.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListVehicles returns all vehicles.
func (r *Repository) ListVehicles(ctx context.Context) ([]Vehicle, error) {
	const query = `
		SELECT id, plate, make, model, capacity, status, created_at, updated_at
		FROM vehicles
		ORDER BY plate`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vehicles []Vehicle
	for rows.Next() {
		var v Vehicle
		if err := rows.Scan(&v.ID, &v.Plate, &v.Make, &v.Model, &v.Capacity, &v.Status, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, err
		}
		vehicles = append(vehicles, v)
	}
	return vehicles, rows.Err()
}

// ListRepairs returns all repair records.
func (r *Repository) ListRepairs(ctx context.Context) ([]Repair, error) {
	const query = `
		SELECT id, vehicle_id, description, cost, currency, repaired_at, created_at
		FROM repairs
		ORDER BY repaired_at DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var repairs []Repair
	for rows.Next() {
		var rep Repair
		if err := rows.Scan(&rep.ID, &rep.VehicleID, &rep.Description, &rep.Cost, &rep.Currency, &rep.RepairedAt, &rep.CreatedAt); err != nil {
			return nil, err
		}
		repairs = append(repairs, rep)
	}
	return repairs, rows.Err()
}
