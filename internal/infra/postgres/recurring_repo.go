package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ledgerline/ledgerline/internal/platform/recurring"
)

// RecurringRepository implements the recurring record repository using
// PostgreSQL. A uniqueness constraint on (user_id, name, amount,
// frequency) plus upsert-on-conflict makes every write independently
// idempotent, so overlapping detection runs for the same user cannot
// create duplicate active records.
type RecurringRepository struct {
	pool *pgxpool.Pool
}

// NewRecurringRepository creates a new PostgreSQL recurring repository
func NewRecurringRepository(pool *pgxpool.Pool) *RecurringRepository {
	return &RecurringRepository{pool: pool}
}

// Upsert inserts the record or updates the existing row for its key.
// Dismissed rows are left untouched: the conflict update is guarded so a
// dismissed key silently keeps its state, and the existing row's ID is
// returned either way.
func (r *RecurringRepository) Upsert(ctx context.Context, rec *recurring.Record) (uuid.UUID, error) {
	query := `
		INSERT INTO recurring_records (
			id, user_id, name, display_name, merchant_name, category,
			amount, flow, frequency, next_due_date, last_transaction_date,
			confidence, occurrences, is_active, is_confirmed, dismissed_at,
			linked_transaction_ids, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		ON CONFLICT (user_id, name, amount, frequency) DO UPDATE SET
			display_name = EXCLUDED.display_name,
			merchant_name = EXCLUDED.merchant_name,
			category = EXCLUDED.category,
			next_due_date = EXCLUDED.next_due_date,
			last_transaction_date = EXCLUDED.last_transaction_date,
			confidence = EXCLUDED.confidence,
			occurrences = EXCLUDED.occurrences,
			is_confirmed = EXCLUDED.is_confirmed,
			linked_transaction_ids = EXCLUDED.linked_transaction_ids,
			updated_at = EXCLUDED.updated_at
		WHERE recurring_records.dismissed_at IS NULL
		RETURNING id
	`

	var id uuid.UUID
	err := r.pool.QueryRow(ctx, query,
		rec.ID,
		rec.UserID,
		rec.Name,
		rec.DisplayName,
		rec.MerchantName,
		rec.Category,
		rec.Amount,
		rec.Flow,
		rec.Frequency,
		rec.NextDueDate,
		rec.LastTransactionDate,
		rec.Confidence,
		rec.Occurrences,
		rec.IsActive,
		rec.IsConfirmed,
		rec.DismissedAt,
		rec.LinkedTransactionIDs,
		rec.CreatedAt,
		rec.UpdatedAt,
	).Scan(&id)

	if errors.Is(err, pgx.ErrNoRows) {
		// Conflict with a dismissed row: return its ID without touching it
		lookup := `
			SELECT id FROM recurring_records
			WHERE user_id = $1 AND name = $2 AND amount = $3 AND frequency = $4
		`
		if err := r.pool.QueryRow(ctx, lookup, rec.UserID, rec.Name, rec.Amount, rec.Frequency).Scan(&id); err != nil {
			return uuid.Nil, fmt.Errorf("failed to resolve dismissed record: %w", err)
		}
		return id, nil
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to upsert recurring record: %w", err)
	}

	return id, nil
}

// GetByID retrieves a record by ID
func (r *RecurringRepository) GetByID(ctx context.Context, id uuid.UUID) (*recurring.Record, error) {
	query := selectRecurring + ` WHERE id = $1`

	rec := &recurring.Record{}
	if err := scanRecurring(r.pool.QueryRow(ctx, query, id), rec); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, recurring.ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to get recurring record: %w", err)
	}

	return rec, nil
}

// ListActive retrieves all active records for a user
func (r *RecurringRepository) ListActive(ctx context.Context, userID uuid.UUID) ([]*recurring.Record, error) {
	query := selectRecurring + ` WHERE user_id = $1 AND is_active ORDER BY next_due_date`
	return r.list(ctx, query, userID)
}

// ListDismissed retrieves all records the user explicitly dismissed
func (r *RecurringRepository) ListDismissed(ctx context.Context, userID uuid.UUID) ([]*recurring.Record, error) {
	query := selectRecurring + ` WHERE user_id = $1 AND dismissed_at IS NOT NULL ORDER BY dismissed_at DESC`
	return r.list(ctx, query, userID)
}

// Dismiss deactivates a record and stamps the dismissal time
func (r *RecurringRepository) Dismiss(ctx context.Context, id uuid.UUID, at time.Time) error {
	query := `
		UPDATE recurring_records
		SET is_active = false, dismissed_at = $1, updated_at = $1
		WHERE id = $2
	`

	result, err := r.pool.Exec(ctx, query, at, id)
	if err != nil {
		return fmt.Errorf("failed to dismiss recurring record: %w", err)
	}

	if result.RowsAffected() == 0 {
		return recurring.ErrRecordNotFound
	}

	return nil
}

// Confirm marks a record as user-confirmed
func (r *RecurringRepository) Confirm(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE recurring_records
		SET is_confirmed = true, updated_at = now()
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to confirm recurring record: %w", err)
	}

	if result.RowsAffected() == 0 {
		return recurring.ErrRecordNotFound
	}

	return nil
}

func (r *RecurringRepository) list(ctx context.Context, query string, userID uuid.UUID) ([]*recurring.Record, error) {
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query recurring records: %w", err)
	}
	defer rows.Close()

	var records []*recurring.Record
	for rows.Next() {
		rec := &recurring.Record{}
		if err := scanRecurring(rows, rec); err != nil {
			return nil, fmt.Errorf("failed to scan recurring record: %w", err)
		}
		records = append(records, rec)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recurring records: %w", err)
	}

	return records, nil
}

const selectRecurring = `
	SELECT id, user_id, name, display_name, merchant_name, category,
	       amount, flow, frequency, next_due_date, last_transaction_date,
	       confidence, occurrences, is_active, is_confirmed, dismissed_at,
	       linked_transaction_ids, created_at, updated_at
	FROM recurring_records
`

// scanRecurring scans one recurring record row
func scanRecurring(row pgx.Row, rec *recurring.Record) error {
	return row.Scan(
		&rec.ID,
		&rec.UserID,
		&rec.Name,
		&rec.DisplayName,
		&rec.MerchantName,
		&rec.Category,
		&rec.Amount,
		&rec.Flow,
		&rec.Frequency,
		&rec.NextDueDate,
		&rec.LastTransactionDate,
		&rec.Confidence,
		&rec.Occurrences,
		&rec.IsActive,
		&rec.IsConfirmed,
		&rec.DismissedAt,
		&rec.LinkedTransactionIDs,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
}
