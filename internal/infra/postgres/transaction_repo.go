package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ledgerline/ledgerline/internal/platform/transaction"
)

// TransactionRepository implements the transaction repository using PostgreSQL
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new PostgreSQL transaction repository
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

// Create creates a new transaction record
func (r *TransactionRepository) Create(ctx context.Context, rec *transaction.Record) error {
	query := `
		INSERT INTO transactions (id, account_id, user_id, name, merchant_name, category, amount, date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	rec.CreatedAt = time.Now()

	_, err := r.pool.Exec(ctx, query,
		rec.ID,
		rec.AccountID,
		rec.UserID,
		rec.Name,
		rec.MerchantName,
		rec.Category,
		rec.Amount,
		rec.Date,
		rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}

	return nil
}

// GetByID retrieves a transaction by ID with account fields joined in
func (r *TransactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*transaction.Record, error) {
	query := selectRecord + ` WHERE t.id = $1`

	rec := &transaction.Record{}
	if err := scanRecord(r.pool.QueryRow(ctx, query, id), rec); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, transaction.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	return rec, nil
}

// ListByUser retrieves a user's transactions matching the filter, newest
// first. Account polarity and type are joined in so detection needs no
// second query.
func (r *TransactionRepository) ListByUser(ctx context.Context, userID uuid.UUID, f transaction.Filter) ([]*transaction.Record, error) {
	query := selectRecord + ` WHERE t.user_id = $1`
	args := []interface{}{userID}

	if len(f.AccountTypes) > 0 {
		types := make([]string, len(f.AccountTypes))
		for i, t := range f.AccountTypes {
			types[i] = string(t)
		}
		args = append(args, types)
		query += fmt.Sprintf(" AND a.type = ANY($%d)", len(args))
	}
	if f.Since != nil {
		args = append(args, *f.Since)
		query += fmt.Sprintf(" AND t.date >= $%d", len(args))
	}

	query += " ORDER BY t.date DESC NULLS LAST"

	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var records []*transaction.Record
	for rows.Next() {
		rec := &transaction.Record{}
		if err := scanRecord(rows, rec); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		records = append(records, rec)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}

	return records, nil
}

const selectRecord = `
	SELECT t.id, t.account_id, t.user_id, t.name, t.merchant_name, t.category,
	       t.amount, t.date, t.created_at, a.type, a.polarity_inverted
	FROM transactions t
	JOIN accounts a ON a.id = t.account_id
`

// scanRecord scans one joined transaction row
func scanRecord(row pgx.Row, rec *transaction.Record) error {
	return row.Scan(
		&rec.ID,
		&rec.AccountID,
		&rec.UserID,
		&rec.Name,
		&rec.MerchantName,
		&rec.Category,
		&rec.Amount,
		&rec.Date,
		&rec.CreatedAt,
		&rec.AccountType,
		&rec.PolarityInverted,
	)
}
