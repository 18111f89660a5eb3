package transaction_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ledgerline/ledgerline/internal/platform/account"
	"github.com/ledgerline/ledgerline/internal/platform/transaction"
	"github.com/ledgerline/ledgerline/pkg/money"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, r *transaction.Record) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockRepository) GetByID(ctx context.Context, id uuid.UUID) (*transaction.Record, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transaction.Record), args.Error(1)
}

func (m *MockRepository) ListByUser(ctx context.Context, userID uuid.UUID, f transaction.Filter) ([]*transaction.Record, error) {
	args := m.Called(ctx, userID, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*transaction.Record), args.Error(1)
}

type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) Create(ctx context.Context, a *account.Account) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Account), args.Error(1)
}

func (m *MockAccountRepository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]*account.Account, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*account.Account), args.Error(1)
}

func (m *MockAccountRepository) Update(ctx context.Context, a *account.Account) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockAccountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestCreate_DenormalizesAccountFields(t *testing.T) {
	repo := new(MockRepository)
	accounts := new(MockAccountRepository)
	svc := transaction.NewService(repo, accounts)

	userID := uuid.New()
	accountID := uuid.New()
	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	accounts.On("GetByID", mock.Anything, accountID).Return(&account.Account{
		ID:               accountID,
		UserID:           userID,
		Type:             account.TypeChecking,
		PolarityInverted: true,
	}, nil)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	created, err := svc.Create(context.Background(), &transaction.Record{
		AccountID: accountID,
		UserID:    userID,
		Name:      "EMPLOYER PAYROLL",
		Amount:    money.MustParse("-1500.00"),
		Date:      &date,
	})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, account.TypeChecking, created.AccountType)
	assert.True(t, created.PolarityInverted)
	// The stored sign flips through the account's polarity flag
	assert.True(t, created.EffectiveAmount().Equal(money.MustParse("1500.00")))
	assert.True(t, created.IsIncome())

	repo.AssertExpectations(t)
}

func TestCreate_RejectsOtherUsersAccount(t *testing.T) {
	repo := new(MockRepository)
	accounts := new(MockAccountRepository)
	svc := transaction.NewService(repo, accounts)

	accountID := uuid.New()
	accounts.On("GetByID", mock.Anything, accountID).Return(&account.Account{
		ID:     accountID,
		UserID: uuid.New(),
	}, nil)

	_, err := svc.Create(context.Background(), &transaction.Record{
		AccountID: accountID,
		UserID:    uuid.New(),
		Name:      "CITY GYM",
		Amount:    money.MustParse("-45.00"),
	})
	assert.ErrorIs(t, err, account.ErrUnauthorizedAccess)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreate_Validation(t *testing.T) {
	svc := transaction.NewService(new(MockRepository), new(MockAccountRepository))

	tests := []struct {
		name     string
		record   *transaction.Record
		expected error
	}{
		{
			"missing user",
			&transaction.Record{AccountID: uuid.New(), Name: "x", Amount: money.MustParse("1")},
			transaction.ErrInvalidUserID,
		},
		{
			"missing account",
			&transaction.Record{UserID: uuid.New(), Name: "x", Amount: money.MustParse("1")},
			transaction.ErrInvalidAccountID,
		},
		{
			"missing name",
			&transaction.Record{UserID: uuid.New(), AccountID: uuid.New(), Amount: money.MustParse("1")},
			transaction.ErrNameRequired,
		},
		{
			"zero amount",
			&transaction.Record{UserID: uuid.New(), AccountID: uuid.New(), Name: "x"},
			transaction.ErrZeroAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tt.record)
			assert.ErrorIs(t, err, tt.expected)
		})
	}
}
