package account

import "errors"

var (
	ErrInvalidUserID      = errors.New("invalid user ID")
	ErrNameRequired       = errors.New("account name is required")
	ErrInvalidType        = errors.New("invalid or unsupported account type")
	ErrAccountNotFound    = errors.New("account not found")
	ErrDuplicateName      = errors.New("account name already exists")
	ErrUnauthorizedAccess = errors.New("account does not belong to user")
)
