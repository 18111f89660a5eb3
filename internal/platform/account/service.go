package account

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Service provides business logic for account operations
type Service struct {
	repo Repository
}

// NewService creates a new account service
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create links a new account for a user
func (s *Service) Create(ctx context.Context, a *Account) (*Account, error) {
	if err := a.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	a.ID = uuid.New()

	if err := s.repo.Create(ctx, a); err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	return a, nil
}

// GetByID retrieves an account by ID and validates user ownership
func (s *Service) GetByID(ctx context.Context, id, userID uuid.UUID) (*Account, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if a.UserID != userID {
		return nil, ErrUnauthorizedAccess
	}

	return a, nil
}

// List retrieves all accounts for a user
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]*Account, error) {
	accounts, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}

// Update updates an account after verifying ownership
func (s *Service) Update(ctx context.Context, a *Account, userID uuid.UUID) (*Account, error) {
	existing, err := s.repo.GetByID(ctx, a.ID)
	if err != nil {
		return nil, err
	}

	if existing.UserID != userID {
		return nil, ErrUnauthorizedAccess
	}

	a.UserID = existing.UserID
	if err := a.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if err := s.repo.Update(ctx, a); err != nil {
		return nil, fmt.Errorf("failed to update account: %w", err)
	}

	return a, nil
}

// Delete deletes an account after verifying ownership
func (s *Service) Delete(ctx context.Context, id, userID uuid.UUID) error {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if existing.UserID != userID {
		return ErrUnauthorizedAccess
	}

	return s.repo.Delete(ctx, id)
}
