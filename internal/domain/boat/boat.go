// Package boat resolves boat class identifiers into seat geometry.
//
// A resolved Configuration answers three questions for the rest of the
// engine: how many seats the shell has, whether a coxswain steers it, and
// which side each seat rigs to. Resolution is a fixed-table lookup so it is
// safe to call inside hot loops.
package boat

import (
	"fmt"
	"sort"
)

// Side is the rowing side a seat requires or an athlete can row.
type Side string

// Side values. Sculling seats and two-oar athletes carry Both.
const (
	Port      Side = "port"
	Starboard Side = "starboard"
	Both      Side = "both"
)

// ParseSide converts a wire string into a Side.
func ParseSide(s string) (Side, error) {
	switch Side(s) {
	case Port, Starboard, Both:
		return Side(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidSide, s)
	}
}

// Opposite returns the mirrored sweep side. Both mirrors to itself.
func (s Side) Opposite() Side {
	switch s {
	case Port:
		return Starboard
	case Starboard:
		return Port
	default:
		return Both
	}
}

// Matches reports whether an athlete with this capability can take a seat
// rigged to required without rowing off-side.
func (s Side) Matches(required Side) bool {
	return s == Both || required == Both || s == required
}

// Configuration describes the seat geometry of one boat class.
type Configuration struct {
	Class       string `json:"boat_class"`
	SeatCount   int    `json:"seat_count"`
	HasCoxswain bool   `json:"has_coxswain"`
	Sculling    bool   `json:"sculling"`
	// SeatSides holds the rigged side per seat, index 0 = seat 1 = bow.
	SeatSides []Side `json:"seat_sides"`
}

// classSpec is one row of the static class table.
type classSpec struct {
	seats    int
	coxswain bool
	sculling bool
}

// classTable enumerates every supported boat class. Extend here to support
// additional shells; geometry is derived, never stored.
var classTable = map[string]classSpec{
	"8+": {seats: 8, coxswain: true},
	"4+": {seats: 4, coxswain: true},
	"4-": {seats: 4},
	"4x": {seats: 4, sculling: true},
	"2-": {seats: 2},
	"2x": {seats: 2, sculling: true},
	"1x": {seats: 1, sculling: true},
}

// Resolve derives the Configuration for a boat class.
// Sweep shells alternate sides starting from seat 1 (bow) = starboard;
// sculling shells carry Both on every seat.
func Resolve(class string) (Configuration, error) {
	spec, ok := classTable[class]
	if !ok {
		return Configuration{}, fmt.Errorf("%w: %q (supported: %v)", ErrUnknownClass, class, Classes())
	}

	sides := make([]Side, spec.seats)
	for i := range sides {
		switch {
		case spec.sculling:
			sides[i] = Both
		case i%2 == 0:
			sides[i] = Starboard
		default:
			sides[i] = Port
		}
	}

	return Configuration{
		Class:       class,
		SeatCount:   spec.seats,
		HasCoxswain: spec.coxswain,
		Sculling:    spec.sculling,
		SeatSides:   sides,
	}, nil
}

// Classes returns the supported boat classes in stable order.
func Classes() []string {
	out := make([]string, 0, len(classTable))
	for class := range classTable {
		out = append(out, class)
	}
	sort.Strings(out)
	return out
}

// SideForSeat returns the rigged side of a 1-based seat number.
func (c Configuration) SideForSeat(seatNumber int) (Side, error) {
	if seatNumber < 1 || seatNumber > c.SeatCount {
		return "", fmt.Errorf("%w: seat %d of %d", ErrInvalidSeat, seatNumber, c.SeatCount)
	}
	return c.SeatSides[seatNumber-1], nil
}

// RowingSeats is the number of seats that contribute power, i.e. all of them;
// the coxswain slot is separate from SeatCount by construction.
func (c Configuration) RowingSeats() int {
	return c.SeatCount
}
