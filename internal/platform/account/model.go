package account

import (
	"time"

	"github.com/google/uuid"
)

// Type identifies the kind of bank account
type Type string

const (
	TypeChecking Type = "checking"
	TypeSavings  Type = "savings"
	TypeCredit   Type = "credit"
	TypeLoan     Type = "loan"
)

// DepositoryTypes are the account types eligible for income detection.
// Paychecks land in checking or savings accounts; credit and loan accounts
// only ever see expense-side activity.
var DepositoryTypes = []Type{TypeChecking, TypeSavings}

// Account represents a linked bank account
type Account struct {
	ID     uuid.UUID
	UserID uuid.UUID
	Name   string
	Type   Type

	// PolarityInverted indicates that the institution reports amounts with
	// reversed sign relative to true income/expense meaning.
	PolarityInverted bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate validates the account fields for creation
func (a *Account) Validate() error {
	if a.UserID == uuid.Nil {
		return ErrInvalidUserID
	}
	if a.Name == "" {
		return ErrNameRequired
	}
	if !a.Type.Valid() {
		return ErrInvalidType
	}
	return nil
}

// Valid reports whether the account type is one of the supported types
func (t Type) Valid() bool {
	switch t {
	case TypeChecking, TypeSavings, TypeCredit, TypeLoan:
		return true
	}
	return false
}

// IsDepository reports whether the account type holds deposits
func (t Type) IsDepository() bool {
	return t == TypeChecking || t == TypeSavings
}
