package recurring

import "errors"

var (
	ErrInvalidMode        = errors.New("invalid detection mode")
	ErrRecordNotFound     = errors.New("recurring record not found")
	ErrUnauthorizedAccess = errors.New("recurring record does not belong to user")
	ErrAlreadyDismissed   = errors.New("recurring record already dismissed")
)
