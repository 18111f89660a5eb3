package recurring_test

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/ledgerline/ledgerline/internal/platform/account"
	"github.com/ledgerline/ledgerline/internal/platform/recurring"
	"github.com/ledgerline/ledgerline/internal/platform/transaction"
	"github.com/ledgerline/ledgerline/pkg/logger"
	"github.com/ledgerline/ledgerline/pkg/money"
)

// =============================================================================
// Mock Transaction Source
// =============================================================================

type MockTransactionSource struct {
	mock.Mock
}

func (m *MockTransactionSource) ListByUser(ctx context.Context, userID uuid.UUID, f transaction.Filter) ([]*transaction.Record, error) {
	args := m.Called(ctx, userID, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*transaction.Record), args.Error(1)
}

// =============================================================================
// Mock Recurring Repository
// =============================================================================

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Upsert(ctx context.Context, rec *recurring.Record) (uuid.UUID, error) {
	args := m.Called(ctx, rec)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockRepository) GetByID(ctx context.Context, id uuid.UUID) (*recurring.Record, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*recurring.Record), args.Error(1)
}

func (m *MockRepository) ListActive(ctx context.Context, userID uuid.UUID) ([]*recurring.Record, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*recurring.Record), args.Error(1)
}

func (m *MockRepository) ListDismissed(ctx context.Context, userID uuid.UUID) ([]*recurring.Record, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*recurring.Record), args.Error(1)
}

func (m *MockRepository) Dismiss(ctx context.Context, id uuid.UUID, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *MockRepository) Confirm(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// =============================================================================
// Mock Result Cache
// =============================================================================

type MockResultCache struct {
	mock.Mock
}

func (m *MockResultCache) GetResult(ctx context.Context, userID uuid.UUID, mode recurring.Mode) (*recurring.DetectionResult, error) {
	args := m.Called(ctx, userID, mode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*recurring.DetectionResult), args.Error(1)
}

func (m *MockResultCache) SetResult(ctx context.Context, userID uuid.UUID, mode recurring.Mode, res *recurring.DetectionResult) error {
	args := m.Called(ctx, userID, mode, res)
	return args.Error(0)
}

func (m *MockResultCache) Invalidate(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// =============================================================================
// Builders
// =============================================================================

func testLogger() *logger.Logger {
	return logger.NewDefault("test")
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// txn builds an expense-side checking transaction for a user
func txn(userID uuid.UUID, name, amount string, date time.Time) *transaction.Record {
	return &transaction.Record{
		ID:          uuid.New(),
		AccountID:   uuid.New(),
		UserID:      userID,
		Name:        name,
		Amount:      money.MustParse(amount),
		Date:        &date,
		AccountType: account.TypeChecking,
	}
}

func obs(name, amount string, date time.Time) recurring.Observation {
	return recurring.Observation{
		TransactionID: uuid.New(),
		Name:          name,
		DisplayName:   name,
		Amount:        money.MustParse(amount),
		Date:          date,
	}
}

func dec(s string) decimal.Decimal {
	return money.MustParse(s)
}
