package recurring_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerline/ledgerline/internal/platform/recurring"
	"github.com/ledgerline/ledgerline/internal/platform/transaction"
	"github.com/ledgerline/ledgerline/pkg/money"
)

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
	}{
		{"lowercase", "NETFLIX", "netflix"},
		{"keeps dots", "NETFLIX.COM", "netflix.com"},
		{"keeps ampersand", "AT&T", "at&t"},
		{"strips punctuation", "NETFLIX.COM *1234", "netflix.com"},
		{"drops trailing reference number", "SPOTIFY 889231", "spotify"},
		{"drops multiple trailing numbers", "ACME PMT 12 98765", "acme pmt"},
		{"keeps interior numbers", "7 ELEVEN STORE", "7 eleven store"},
		{"collapses whitespace", "  City   Gym  ", "city gym"},
		{"empty input", "", ""},
		{"numbers only", "12345", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, recurring.NormalizeName(tt.raw))
		})
	}
}

func TestNormalizer_PolarityInversion(t *testing.T) {
	n := recurring.NewNormalizer(testLogger())
	userID := uuid.New()
	paydate := day(2024, 1, 15)

	// Some institutions report deposits as negative on certain accounts;
	// the account-level flag flips them back.
	rec := txn(userID, "EMPLOYER PAYROLL", "-1500.00", paydate)
	rec.PolarityInverted = true

	income := n.Normalize([]*transaction.Record{rec}, recurring.ModeIncome)
	require.Len(t, income, 1)
	assert.True(t, income[0].Amount.Equal(money.MustParse("1500.00")))

	expense := n.Normalize([]*transaction.Record{rec}, recurring.ModeExpense)
	assert.Empty(t, expense)
}

func TestNormalizer_ModeFiltering(t *testing.T) {
	n := recurring.NewNormalizer(testLogger())
	userID := uuid.New()
	d := day(2024, 3, 1)

	records := []*transaction.Record{
		txn(userID, "NETFLIX.COM", "-15.99", d),
		txn(userID, "EMPLOYER PAYROLL", "2600.00", d),
	}

	expenses := n.Normalize(records, recurring.ModeExpense)
	require.Len(t, expenses, 1)
	assert.Equal(t, "netflix.com", expenses[0].Name)
	assert.True(t, expenses[0].Amount.IsNegative())

	income := n.Normalize(records, recurring.ModeIncome)
	require.Len(t, income, 1)
	assert.Equal(t, "employer payroll", income[0].Name)
}

func TestNormalizer_DropsUnusableRecords(t *testing.T) {
	n := recurring.NewNormalizer(testLogger())
	userID := uuid.New()
	d := day(2024, 3, 1)

	noDate := txn(userID, "NETFLIX.COM", "-15.99", d)
	noDate.Date = nil

	zero := txn(userID, "NETFLIX.COM", "0", d)
	unusableName := txn(userID, "*** 1234", "-9.99", d)

	out := n.Normalize([]*transaction.Record{noDate, zero, unusableName}, recurring.ModeExpense)
	assert.Empty(t, out)
}

func TestNormalizer_PrefersMerchantName(t *testing.T) {
	n := recurring.NewNormalizer(testLogger())
	userID := uuid.New()
	d := day(2024, 3, 1)

	rec := txn(userID, "POS DEBIT 99213 NETFLIX", "-15.99", d)
	rec.MerchantName = "Netflix"

	out := n.Normalize([]*transaction.Record{rec}, recurring.ModeExpense)
	require.Len(t, out, 1)
	assert.Equal(t, "netflix", out[0].Name)
	assert.Equal(t, "Netflix", out[0].DisplayName)
}

func TestNormalizer_TruncatesToMidnightUTC(t *testing.T) {
	n := recurring.NewNormalizer(testLogger())
	userID := uuid.New()

	stamp := time.Date(2024, 3, 1, 18, 42, 7, 0, time.UTC)
	rec := txn(userID, "CITY GYM", "-45.00", stamp)

	out := n.Normalize([]*transaction.Record{rec}, recurring.ModeExpense)
	require.Len(t, out, 1)
	assert.Equal(t, day(2024, 3, 1), out[0].Date)
}
