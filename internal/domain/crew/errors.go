package crew

import (
	"errors"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrMissingAthleteID = errors.New("missing athlete id")
	ErrDuplicateAthlete = errors.New("duplicate athlete id")
	ErrUnknownAthlete   = errors.New("unknown athlete id")
)
