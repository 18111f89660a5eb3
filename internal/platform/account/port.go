package account

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for account persistence operations
type Repository interface {
	// Create creates a new account
	Create(ctx context.Context, a *Account) error

	// GetByID retrieves an account by ID
	GetByID(ctx context.Context, id uuid.UUID) (*Account, error)

	// GetByUserID retrieves all accounts for a user
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]*Account, error)

	// Update updates an account
	Update(ctx context.Context, a *Account) error

	// Delete deletes an account
	Delete(ctx context.Context, id uuid.UUID) error
}
