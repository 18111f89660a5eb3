package money_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerline/ledgerline/pkg/money"
)

func TestParse(t *testing.T) {
	d, err := money.Parse("-15.99")
	require.NoError(t, err)
	assert.Equal(t, "-15.99", d.String())

	_, err = money.Parse("not-a-number")
	assert.Error(t, err)
}

func TestRoundCents(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"15.994", "15.99"},
		{"15.995", "16"},
		{"-1500.001", "-1500"},
		{"0.005", "0.01"},
	}

	for _, tt := range tests {
		got := money.RoundCents(money.MustParse(tt.in))
		assert.Equal(t, tt.want, got.String(), "RoundCents(%s)", tt.in)
	}
}

func TestWithinTolerance(t *testing.T) {
	tol := decimal.NewFromFloat(0.01)

	assert.True(t, money.WithinTolerance(money.MustParse("15.99"), money.MustParse("15.99"), tol))
	assert.True(t, money.WithinTolerance(money.MustParse("15.99"), money.MustParse("16.00"), tol))
	assert.False(t, money.WithinTolerance(money.MustParse("15.99"), money.MustParse("13.99"), tol))
	assert.False(t, money.WithinTolerance(money.MustParse("15.99"), money.MustParse("16.01"), tol))
}
