//go:build integration

package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerline/ledgerline/internal/infra/postgres"
	"github.com/ledgerline/ledgerline/internal/platform/recurring"
	"github.com/ledgerline/ledgerline/pkg/money"
	"github.com/ledgerline/ledgerline/testutil/testdb"
)

var testDB *testdb.TestDB

func TestMain(m *testing.M) {
	ctx := context.Background()

	var err error
	testDB, err = testdb.NewTestDB(ctx)
	if err != nil {
		panic("failed to create test database: " + err.Error())
	}

	code := m.Run()

	testDB.Close(ctx)
	if code != 0 {
		panic("tests failed")
	}
}

func createTestUser(t *testing.T, ctx context.Context) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := testDB.Pool.Exec(ctx,
		`INSERT INTO users (id, email, password_hash) VALUES ($1, $2, 'x')`,
		id, id.String()+"@example.com",
	)
	require.NoError(t, err)
	return id
}

func monthlyRecord(userID uuid.UUID) *recurring.Record {
	now := time.Now().UTC().Truncate(time.Second)
	return &recurring.Record{
		ID:                  uuid.New(),
		UserID:              userID,
		Name:                "netflix.com",
		DisplayName:         "NETFLIX.COM",
		Amount:              money.MustParse("15.99"),
		Flow:                recurring.ModeExpense,
		Frequency:           recurring.FreqMonthly,
		NextDueDate:         time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
		LastTransactionDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Confidence:          69,
		Occurrences:         3,
		IsActive:            true,
		LinkedTransactionIDs: []uuid.UUID{
			uuid.New(), uuid.New(), uuid.New(),
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestRecurringRepository_UpsertIsIdempotent(t *testing.T) {
	ctx := context.Background()
	require.NoError(t, testDB.Reset(ctx))

	repo := postgres.NewRecurringRepository(testDB.Pool)
	userID := createTestUser(t, ctx)

	rec := monthlyRecord(userID)
	firstID, err := repo.Upsert(ctx, rec)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, firstID)

	// Second write for the same key carries a fresh ID and higher
	// confidence; it must update the existing row, not add one.
	again := monthlyRecord(userID)
	again.Confidence = 75
	again.Occurrences = 4

	secondID, err := repo.Upsert(ctx, again)
	require.NoError(t, err)
	assert.Equal(t, firstID, secondID)

	records, err := repo.ListActive(ctx, userID)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, firstID, records[0].ID)
	assert.Equal(t, 75, records[0].Confidence)
	assert.Equal(t, 4, records[0].Occurrences)
	assert.Len(t, records[0].LinkedTransactionIDs, 3)
}

func TestRecurringRepository_DifferentKeysAreSeparateRows(t *testing.T) {
	ctx := context.Background()
	require.NoError(t, testDB.Reset(ctx))

	repo := postgres.NewRecurringRepository(testDB.Pool)
	userID := createTestUser(t, ctx)

	a := monthlyRecord(userID)
	_, err := repo.Upsert(ctx, a)
	require.NoError(t, err)

	// Same merchant at a new price is a distinct detection key
	b := monthlyRecord(userID)
	b.Amount = money.MustParse("13.99")
	_, err = repo.Upsert(ctx, b)
	require.NoError(t, err)

	records, err := repo.ListActive(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestRecurringRepository_DismissalIsDurable(t *testing.T) {
	ctx := context.Background()
	require.NoError(t, testDB.Reset(ctx))

	repo := postgres.NewRecurringRepository(testDB.Pool)
	userID := createTestUser(t, ctx)

	rec := monthlyRecord(userID)
	id, err := repo.Upsert(ctx, rec)
	require.NoError(t, err)

	dismissedAt := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, repo.Dismiss(ctx, id, dismissedAt))

	// A later detection run writing the same key must not resurrect or
	// modify the dismissed row.
	again := monthlyRecord(userID)
	again.Confidence = 90
	resolvedID, err := repo.Upsert(ctx, again)
	require.NoError(t, err)
	assert.Equal(t, id, resolvedID)

	active, err := repo.ListActive(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, active)

	dismissed, err := repo.ListDismissed(ctx, userID)
	require.NoError(t, err)
	require.Len(t, dismissed, 1)
	assert.Equal(t, id, dismissed[0].ID)
	assert.Equal(t, 69, dismissed[0].Confidence)
	assert.False(t, dismissed[0].IsActive)
	require.NotNil(t, dismissed[0].DismissedAt)
}

func TestRecurringRepository_GetByID(t *testing.T) {
	ctx := context.Background()
	require.NoError(t, testDB.Reset(ctx))

	repo := postgres.NewRecurringRepository(testDB.Pool)
	userID := createTestUser(t, ctx)

	rec := monthlyRecord(userID)
	id, err := repo.Upsert(ctx, rec)
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, rec.Name, got.Name)
	assert.True(t, got.Amount.Equal(rec.Amount))
	assert.Equal(t, rec.Frequency, got.Frequency)
	assert.Equal(t, rec.NextDueDate, got.NextDueDate.UTC())

	_, err = repo.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, recurring.ErrRecordNotFound)
}

func TestRecurringRepository_Confirm(t *testing.T) {
	ctx := context.Background()
	require.NoError(t, testDB.Reset(ctx))

	repo := postgres.NewRecurringRepository(testDB.Pool)
	userID := createTestUser(t, ctx)

	id, err := repo.Upsert(ctx, monthlyRecord(userID))
	require.NoError(t, err)

	require.NoError(t, repo.Confirm(ctx, id))

	got, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.True(t, got.IsConfirmed)

	assert.ErrorIs(t, repo.Confirm(ctx, uuid.New()), recurring.ErrRecordNotFound)
}
