package boat

import (
	"errors"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrUnknownClass = errors.New("unknown boat class")
	ErrInvalidSide  = errors.New("invalid side")
	ErrInvalidSeat  = errors.New("invalid seat number")
)
