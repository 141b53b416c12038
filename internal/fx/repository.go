package fx

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Rate is one stored exchange rate row.
type Rate struct {
	Currency  string
	Rate      float64
	UpdatedAt time.Time
}

// Repository provides PostgreSQL backed persistence for exchange rates.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListRates returns the current rate per currency.
func (r *Repository) ListRates(ctx context.Context) ([]Rate, error) {
	const query = `
		SELECT currency, rate, updated_at
		FROM exchange_rates
		ORDER BY currency`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rates []Rate
	for rows.Next() {
		var rate Rate
		if err := rows.Scan(&rate.Currency, &rate.Rate, &rate.UpdatedAt); err != nil {
			return nil, err
		}
		rates = append(rates, rate)
	}
	return rates, rows.Err()
}

// UpsertRate writes or replaces the rate for a currency.
func (r *Repository) UpsertRate(ctx context.Context, currency string, rate float64) error {
	const query = `
		INSERT INTO exchange_rates (currency, rate, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (currency) DO UPDATE SET rate = EXCLUDED.rate, updated_at = NOW()`
	_, err := r.pool.Exec(ctx, query, currency, rate)
	return err
}
