package transaction

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/ledgerline/ledgerline/internal/platform/account"
)

// Service provides business logic for transaction operations
type Service struct {
	repo        Repository
	accountRepo account.Repository
}

// NewService creates a new transaction service
func NewService(repo Repository, accountRepo account.Repository) *Service {
	return &Service{repo: repo, accountRepo: accountRepo}
}

// Create records a new transaction on one of the user's accounts
func (s *Service) Create(ctx context.Context, r *Record) (*Record, error) {
	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	acct, err := s.accountRepo.GetByID(ctx, r.AccountID)
	if err != nil {
		return nil, err
	}
	if acct.UserID != r.UserID {
		return nil, account.ErrUnauthorizedAccess
	}

	r.ID = uuid.New()
	r.AccountType = acct.Type
	r.PolarityInverted = acct.PolarityInverted

	if err := s.repo.Create(ctx, r); err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	return r, nil
}

// List retrieves a user's transactions matching the filter
func (s *Service) List(ctx context.Context, userID uuid.UUID, f Filter) ([]*Record, error) {
	records, err := s.repo.ListByUser(ctx, userID, f)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return records, nil
}
