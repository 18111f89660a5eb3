package transaction

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for transaction persistence operations
type Repository interface {
	// Create creates a new transaction record
	Create(ctx context.Context, r *Record) error

	// GetByID retrieves a transaction by ID
	GetByID(ctx context.Context, id uuid.UUID) (*Record, error)

	// ListByUser retrieves a user's transactions matching the filter,
	// newest first, with account polarity and type joined in.
	ListByUser(ctx context.Context, userID uuid.UUID, f Filter) ([]*Record, error)
}
