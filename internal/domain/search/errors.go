package search

import (
	"errors"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	// ErrInfeasibleConstraints reports a roster/constraint combination that
	// no lineup can satisfy. It is detected before the generation loop runs.
	ErrInfeasibleConstraints = errors.New("infeasible constraints")
)
