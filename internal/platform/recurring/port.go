package recurring

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerline/ledgerline/internal/platform/transaction"
)

// Repository defines the persistence interface for recurring records.
// Upsert must be independently idempotent per (userID, name, amount,
// frequency) key so overlapping detection runs for the same user cannot
// create duplicate active records.
type Repository interface {
	// Upsert inserts the record or, when the key already exists, updates
	// the existing row and returns its ID.
	Upsert(ctx context.Context, rec *Record) (uuid.UUID, error)

	// GetByID retrieves a record by ID
	GetByID(ctx context.Context, id uuid.UUID) (*Record, error)

	// ListActive retrieves all active records for a user
	ListActive(ctx context.Context, userID uuid.UUID) ([]*Record, error)

	// ListDismissed retrieves all records the user explicitly dismissed
	ListDismissed(ctx context.Context, userID uuid.UUID) ([]*Record, error)

	// Dismiss deactivates a record and stamps the dismissal time
	Dismiss(ctx context.Context, id uuid.UUID, at time.Time) error

	// Confirm marks a record as user-confirmed
	Confirm(ctx context.Context, id uuid.UUID) error
}

// TransactionSource provides the raw transaction history detection reads
type TransactionSource interface {
	ListByUser(ctx context.Context, userID uuid.UUID, f transaction.Filter) ([]*transaction.Record, error)
}

// ResultCache caches the latest detection result per user and mode so the
// suggestions endpoint can serve without recomputation. A nil cache
// disables caching entirely.
type ResultCache interface {
	// GetResult returns the cached result, or nil on a cache miss
	GetResult(ctx context.Context, userID uuid.UUID, mode Mode) (*DetectionResult, error)

	// SetResult stores the result for the configured TTL
	SetResult(ctx context.Context, userID uuid.UUID, mode Mode, res *DetectionResult) error

	// Invalidate drops all cached results for a user
	Invalidate(ctx context.Context, userID uuid.UUID) error
}
