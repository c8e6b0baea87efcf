package boat_test

import (
	"errors"
	"testing"

	"github.com/oarbit/rigger/internal/domain/boat"
	. "github.com/smartystreets/goconvey/convey"
)

func TestResolve(t *testing.T) {
	Convey("Given the boat class table", t, func() {
		Convey("When resolving an eight", func() {
			cfg, err := boat.Resolve("8+")

			Convey("Then it should have eight alternating sweep seats and a coxswain", func() {
				So(err, ShouldBeNil)
				So(cfg.Class, ShouldEqual, "8+")
				So(cfg.SeatCount, ShouldEqual, 8)
				So(cfg.HasCoxswain, ShouldBeTrue)
				So(cfg.Sculling, ShouldBeFalse)
				So(len(cfg.SeatSides), ShouldEqual, 8)
				// Seat 1 (bow) is starboard and sides alternate strictly.
				So(cfg.SeatSides[0], ShouldEqual, boat.Starboard)
				for i := 1; i < len(cfg.SeatSides); i++ {
					So(cfg.SeatSides[i], ShouldEqual, cfg.SeatSides[i-1].Opposite())
				}
			})
		})

		Convey("When resolving every supported class", func() {
			expected := map[string]struct {
				seats int
				cox   bool
				scull bool
			}{
				"8+": {8, true, false},
				"4+": {4, true, false},
				"4-": {4, false, false},
				"4x": {4, false, true},
				"2-": {2, false, false},
				"2x": {2, false, true},
				"1x": {1, false, true},
			}

			Convey("Then each should match its geometry", func() {
				for class, want := range expected {
					cfg, err := boat.Resolve(class)
					So(err, ShouldBeNil)
					So(cfg.SeatCount, ShouldEqual, want.seats)
					So(cfg.HasCoxswain, ShouldEqual, want.cox)
					So(cfg.Sculling, ShouldEqual, want.scull)
				}
			})
		})

		Convey("When resolving a sculling class", func() {
			cfg, err := boat.Resolve("4x")

			Convey("Then every seat should carry Both", func() {
				So(err, ShouldBeNil)
				for _, side := range cfg.SeatSides {
					So(side, ShouldEqual, boat.Both)
				}
			})
		})

		Convey("When resolving an unknown class", func() {
			_, err := boat.Resolve("16++")

			Convey("Then it should fail with ErrUnknownClass", func() {
				So(err, ShouldNotBeNil)
				So(errors.Is(err, boat.ErrUnknownClass), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "16++")
			})
		})

		Convey("When resolving with an empty class", func() {
			_, err := boat.Resolve("")

			Convey("Then it should fail with ErrUnknownClass", func() {
				So(errors.Is(err, boat.ErrUnknownClass), ShouldBeTrue)
			})
		})
	})
}

func TestClasses(t *testing.T) {
	Convey("Given the supported class list", t, func() {
		classes := boat.Classes()

		Convey("Then it should contain all seven classes in stable order", func() {
			So(classes, ShouldResemble, []string{"1x", "2-", "2x", "4+", "4-", "4x", "8+"})
		})

		Convey("Then each listed class should resolve", func() {
			for _, class := range classes {
				_, err := boat.Resolve(class)
				So(err, ShouldBeNil)
			}
		})
	})
}

func TestSide(t *testing.T) {
	Convey("Given side values", t, func() {
		Convey("When parsing wire strings", func() {
			for _, s := range []string{"port", "starboard", "both"} {
				side, err := boat.ParseSide(s)
				So(err, ShouldBeNil)
				So(string(side), ShouldEqual, s)
			}
		})

		Convey("When parsing an invalid string", func() {
			_, err := boat.ParseSide("leeward")
			So(errors.Is(err, boat.ErrInvalidSide), ShouldBeTrue)
		})

		Convey("When mirroring sides", func() {
			So(boat.Port.Opposite(), ShouldEqual, boat.Starboard)
			So(boat.Starboard.Opposite(), ShouldEqual, boat.Port)
			So(boat.Both.Opposite(), ShouldEqual, boat.Both)
		})

		Convey("When matching capability against a rigged side", func() {
			So(boat.Both.Matches(boat.Port), ShouldBeTrue)
			So(boat.Both.Matches(boat.Starboard), ShouldBeTrue)
			So(boat.Port.Matches(boat.Both), ShouldBeTrue)
			So(boat.Port.Matches(boat.Port), ShouldBeTrue)
			So(boat.Port.Matches(boat.Starboard), ShouldBeFalse)
			So(boat.Starboard.Matches(boat.Port), ShouldBeFalse)
		})
	})
}

func TestSideForSeat(t *testing.T) {
	Convey("Given a resolved pair", t, func() {
		cfg, err := boat.Resolve("2-")
		So(err, ShouldBeNil)

		Convey("When asking for valid seats", func() {
			bow, err := cfg.SideForSeat(1)
			So(err, ShouldBeNil)
			So(bow, ShouldEqual, boat.Starboard)

			stroke, err := cfg.SideForSeat(2)
			So(err, ShouldBeNil)
			So(stroke, ShouldEqual, boat.Port)
		})

		Convey("When asking for out-of-range seats", func() {
			_, err := cfg.SideForSeat(0)
			So(errors.Is(err, boat.ErrInvalidSeat), ShouldBeTrue)

			_, err = cfg.SideForSeat(3)
			So(errors.Is(err, boat.ErrInvalidSeat), ShouldBeTrue)
		})
	})
}
