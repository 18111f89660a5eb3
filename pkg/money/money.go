package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// DefaultTolerance is the absolute amount tolerance used when matching
// transaction amounts against persisted recurring amounts.
var DefaultTolerance = decimal.NewFromFloat(0.01)

// Parse parses a decimal amount from its string representation.
func Parse(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return d, nil
}

// MustParse parses a decimal amount and panics on failure. For tests and
// constants only.
func MustParse(s string) decimal.Decimal {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

// RoundCents rounds an amount to two decimal places, half away from zero.
func RoundCents(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// WithinTolerance reports whether two amounts differ by no more than tol.
func WithinTolerance(a, b, tol decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(tol)
}

// Abs returns the absolute value of an amount.
func Abs(d decimal.Decimal) decimal.Decimal {
	return d.Abs()
}
