package service

import "errors"

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	// ErrNotStarted is returned when an operation runs before Start.
	ErrNotStarted = errors.New("service not started")

	// ErrLineupNotFound is returned when a lineup id is not in the cache,
	// either because it never existed or because it was evicted.
	ErrLineupNotFound = errors.New("lineup not found")

	// ErrClassMismatch is returned when a cached lineup is used with a
	// different boat class than it was optimized for.
	ErrClassMismatch = errors.New("boat class mismatch")
)
