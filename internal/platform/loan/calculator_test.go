package loan_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerline/ledgerline/internal/platform/loan"
	"github.com/ledgerline/ledgerline/pkg/money"
)

func terms(principal, rate string, months int) loan.Terms {
	return loan.Terms{
		Principal:     money.MustParse(principal),
		AnnualRatePct: money.MustParse(rate),
		TermMonths:    months,
		FirstDueDate:  time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestPayment(t *testing.T) {
	tests := []struct {
		name      string
		principal string
		rate      string
		months    int
		expected  string
	}{
		// Standard 30-year mortgage figure
		{"mortgage", "300000", "6", 360, "1798.65"},
		{"car loan", "25000", "5.5", 60, "477.53"},
		{"one year", "1200", "12", 12, "106.62"},
		{"zero rate splits evenly", "1200", "0", 12, "100.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payment, err := loan.Payment(terms(tt.principal, tt.rate, tt.months))
			require.NoError(t, err)
			assert.True(t, payment.Equal(money.MustParse(tt.expected)),
				"got %s, want %s", payment, tt.expected)
		})
	}
}

func TestPayment_InvalidTerms(t *testing.T) {
	tests := []struct {
		name     string
		terms    loan.Terms
		expected error
	}{
		{"zero principal", terms("0", "5", 12), loan.ErrInvalidPrincipal},
		{"negative principal", terms("-100", "5", 12), loan.ErrInvalidPrincipal},
		{"negative rate", terms("1000", "-1", 12), loan.ErrInvalidRate},
		{"zero term", terms("1000", "5", 0), loan.ErrInvalidTerm},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loan.Payment(tt.terms)
			assert.ErrorIs(t, err, tt.expected)
		})
	}
}

func TestSchedule(t *testing.T) {
	sched, err := loan.Schedule(terms("1200", "12", 12))
	require.NoError(t, err)
	require.Len(t, sched, 12)

	first := sched[0]
	assert.Equal(t, 1, first.Number)
	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), first.DueDate)
	// 1% monthly interest on the opening balance
	assert.True(t, first.Interest.Equal(money.MustParse("12.00")))
	assert.True(t, first.Payment.Equal(money.MustParse("106.62")))

	// Balance declines every month and lands exactly on zero
	prev := money.MustParse("1200")
	for _, inst := range sched {
		assert.True(t, inst.Balance.LessThan(prev),
			"installment %d: balance %s did not decline from %s", inst.Number, inst.Balance, prev)
		assert.True(t, inst.Payment.Sub(inst.Interest).Equal(inst.Principal))
		prev = inst.Balance
	}
	assert.True(t, sched[len(sched)-1].Balance.IsZero())

	// Due dates step one month at a time
	for i := 1; i < len(sched); i++ {
		assert.Equal(t, sched[i-1].DueDate.AddDate(0, 1, 0), sched[i].DueDate)
	}
}

func TestSchedule_ZeroRate(t *testing.T) {
	sched, err := loan.Schedule(terms("1200", "0", 12))
	require.NoError(t, err)
	require.Len(t, sched, 12)

	for _, inst := range sched {
		assert.True(t, inst.Interest.IsZero())
		assert.True(t, inst.Principal.Equal(money.MustParse("100.00")))
	}
	assert.True(t, sched[11].Balance.IsZero())
}

func TestTotalInterest(t *testing.T) {
	sched, err := loan.Schedule(terms("1200", "12", 12))
	require.NoError(t, err)

	total := loan.TotalInterest(sched)
	// Principal plus total interest equals the sum of all payments
	paid := decimal.Zero
	for _, inst := range sched {
		paid = paid.Add(inst.Payment)
	}
	assert.True(t, paid.Equal(money.MustParse("1200").Add(total)))
	assert.True(t, total.IsPositive())
}
