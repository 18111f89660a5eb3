package loan

import "errors"

var (
	ErrInvalidPrincipal = errors.New("loan principal must be positive")
	ErrInvalidRate      = errors.New("loan rate cannot be negative")
	ErrInvalidTerm      = errors.New("loan term must be positive")
)
