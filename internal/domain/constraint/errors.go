package constraint

import (
	"errors"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrTooManyRequired       = errors.New("too many required athletes")
	ErrConflictingConstraint = errors.New("conflicting constraint")
	ErrInvalidCoxswain       = errors.New("invalid coxswain")
	ErrNoCoxswainSeat        = errors.New("no coxswain seat")
)
