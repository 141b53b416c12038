package finance

import (
	"context"
	"errors"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tembo-ops/tembo-ops/internal/platform/db"
)

// ErrDuplicateCRNumber indicates a requisition number is already taken.
var ErrDuplicateCRNumber = errors.New("finance: cr number already exists")

// ErrRequisitionNotFound indicates no live requisition carries the number.
var ErrRequisitionNotFound = errors.New("finance: requisition not found")

// Repository provides PostgreSQL backed persistence for the two ledgers.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListTransactions returns all ledger transactions, newest first.
func (r *Repository) ListTransactions(ctx context.Context) ([]Transaction, error) {
	const query = `
		SELECT id, type, status, amount, currency, category, description,
		       reference_number, transaction_date, created_at
		FROM financial_transactions
		ORDER BY transaction_date DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txns []Transaction
	for rows.Next() {
		var t Transaction
		if err := rows.Scan(&t.ID, &t.Type, &t.Status, &t.Amount, &t.Currency, &t.Category, &t.Description,
			&t.ReferenceNumber, &t.TransactionDate, &t.CreatedAt); err != nil {
			return nil, err
		}
		txns = append(txns, t)
	}
	return txns, rows.Err()
}

// ListRequisitions returns all cash requisitions that are not soft-deleted.
func (r *Repository) ListRequisitions(ctx context.Context) ([]CashRequisition, error) {
	const query = `
		SELECT id, cr_number, total_cost, currency, amount_base, status,
		       expense_category, date_completed, deleted, created_at
		FROM cash_requisitions
		WHERE deleted = FALSE
		ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var crs []CashRequisition
	for rows.Next() {
		var cr CashRequisition
		if err := rows.Scan(&cr.ID, &cr.CRNumber, &cr.TotalCost, &cr.Currency, &cr.AmountBase, &cr.Status,
			&cr.ExpenseCategory, &cr.DateCompleted, &cr.Deleted, &cr.CreatedAt); err != nil {
			return nil, err
		}
		crs = append(crs, cr)
	}
	return crs, rows.Err()
}

// GetRequisition looks up a live requisition by its cr_number.
func (r *Repository) GetRequisition(ctx context.Context, crNumber string) (CashRequisition, error) {
	const query = `
		SELECT id, cr_number, total_cost, currency, amount_base, status,
		       expense_category, date_completed, deleted, created_at
		FROM cash_requisitions
		WHERE cr_number = $1 AND deleted = FALSE`
	var cr CashRequisition
	err := r.pool.QueryRow(ctx, query, crNumber).Scan(
		&cr.ID, &cr.CRNumber, &cr.TotalCost, &cr.Currency, &cr.AmountBase, &cr.Status,
		&cr.ExpenseCategory, &cr.DateCompleted, &cr.Deleted, &cr.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return CashRequisition{}, ErrRequisitionNotFound
	}
	if err != nil {
		return CashRequisition{}, err
	}
	return cr, nil
}

// CreateRequisition inserts a new cash requisition. The write runs inside a
// transaction so the number-uniqueness check and the insert commit together.
func (r *Repository) CreateRequisition(ctx context.Context, cr CashRequisition) error {
	const query = `
		INSERT INTO cash_requisitions (
			id, cr_number, total_cost, currency, amount_base, status,
			expense_category, date_completed, deleted, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, FALSE, $9)`
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, query,
			cr.ID, cr.CRNumber, cr.TotalCost, cr.Currency, cr.AmountBase,
			cr.Status, cr.ExpenseCategory, cr.DateCompleted, cr.CreatedAt,
		)
		if err != nil {
			if pgErr, ok := err.(*pgconn.PgError); ok && pgErr.ConstraintName == "uq_cash_requisitions_cr_number" {
				return ErrDuplicateCRNumber
			}
			return err
		}
		return nil
	})
}
