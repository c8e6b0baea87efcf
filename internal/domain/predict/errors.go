package predict

import (
	"errors"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrUnsupportedCourse = errors.New("unsupported course type")
	ErrEmptyLineup       = errors.New("empty lineup")
)
