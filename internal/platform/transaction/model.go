package transaction

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ledgerline/ledgerline/internal/platform/account"
)

// Record represents a single bank transaction as reported by the
// institution. Amounts carry the institution's sign convention; use
// EffectiveAmount to resolve it into income/expense polarity.
type Record struct {
	ID           uuid.UUID
	AccountID    uuid.UUID
	UserID       uuid.UUID
	Name         string
	MerchantName string // optional, often cleaner than Name
	Category     string // optional
	Amount       decimal.Decimal

	// Date is nil when the institution omitted it; such records are
	// skipped by detection, never fatal.
	Date *time.Time

	// AccountType and PolarityInverted are denormalized from the owning
	// account so a single read serves detection.
	AccountType      account.Type
	PolarityInverted bool

	CreatedAt time.Time
}

// EffectiveAmount resolves the stored amount into canonical polarity:
// positive means income, negative means expense.
func (r *Record) EffectiveAmount() decimal.Decimal {
	if r.PolarityInverted {
		return r.Amount.Neg()
	}
	return r.Amount
}

// IsIncome reports whether the record represents money coming in
func (r *Record) IsIncome() bool {
	return r.EffectiveAmount().IsPositive()
}

// IsExpense reports whether the record represents money going out
func (r *Record) IsExpense() bool {
	return r.EffectiveAmount().IsNegative()
}

// Validate validates the record fields for creation
func (r *Record) Validate() error {
	if r.UserID == uuid.Nil {
		return ErrInvalidUserID
	}
	if r.AccountID == uuid.Nil {
		return ErrInvalidAccountID
	}
	if r.Name == "" && r.MerchantName == "" {
		return ErrNameRequired
	}
	if r.Amount.IsZero() {
		return ErrZeroAmount
	}
	return nil
}

// Filter restricts which transactions a query returns
type Filter struct {
	// AccountTypes limits results to transactions on accounts of the given
	// types. Empty means all types.
	AccountTypes []account.Type

	// Since limits results to transactions on or after the given date.
	Since *time.Time

	// Limit caps the number of returned rows, newest first. Zero means no cap.
	Limit int
}
