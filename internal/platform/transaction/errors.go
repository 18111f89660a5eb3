package transaction

import "errors"

var (
	ErrInvalidUserID       = errors.New("invalid user ID")
	ErrInvalidAccountID    = errors.New("invalid account ID")
	ErrNameRequired        = errors.New("transaction name is required")
	ErrZeroAmount          = errors.New("transaction amount cannot be zero")
	ErrTransactionNotFound = errors.New("transaction not found")
)
