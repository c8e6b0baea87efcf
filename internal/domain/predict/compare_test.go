package predict_test

import (
	"errors"
	"testing"

	"github.com/oarbit/rigger/internal/domain/predict"
	. "github.com/smartystreets/goconvey/convey"
)

func TestCompare(t *testing.T) {
	Convey("Given a predictor", t, func() {
		predictor := predict.New()

		Convey("When crew A is clearly stronger", func() {
			comparison, err := predictor.Compare(uniformCrew(4, 95), uniformCrew(4, 25), "4x", predict.Course2000)

			Convey("Then A should be favored with high confidence", func() {
				So(err, ShouldBeNil)
				So(comparison.MarginSeconds, ShouldBeGreaterThan, 0)
				So(comparison.Favored, ShouldEqual, predict.FavoredA)
				So(comparison.Confidence, ShouldEqual, predict.ConfidenceHigh)
				So(comparison.TimeA.PredictedSeconds, ShouldBeLessThan, comparison.TimeB.PredictedSeconds)
			})
		})

		Convey("When the crews are swapped", func() {
			forward, err := predictor.Compare(uniformCrew(4, 80), uniformCrew(4, 55), "4-", predict.Course1500)
			So(err, ShouldBeNil)
			reversed, err := predictor.Compare(uniformCrew(4, 55), uniformCrew(4, 80), "4-", predict.Course1500)
			So(err, ShouldBeNil)

			Convey("Then the margin should flip sign and the favored crew should flip", func() {
				So(reversed.MarginSeconds, ShouldAlmostEqual, -forward.MarginSeconds)
				So(forward.Favored, ShouldEqual, predict.FavoredA)
				So(reversed.Favored, ShouldEqual, predict.FavoredB)
				So(reversed.Confidence, ShouldEqual, forward.Confidence)
			})
		})

		Convey("When the crews are identical", func() {
			comparison, err := predictor.Compare(uniformCrew(2, 66), uniformCrew(2, 66), "2x", predict.Course2000)

			Convey("Then the race should be even at low confidence", func() {
				So(err, ShouldBeNil)
				So(comparison.MarginSeconds, ShouldAlmostEqual, 0)
				So(comparison.Favored, ShouldEqual, predict.FavoredEven)
				So(comparison.Confidence, ShouldEqual, predict.ConfidenceLow)
			})
		})

		Convey("When the margin lands inside the pooled band", func() {
			nearly, err := predictor.Compare(uniformCrew(8, 50), uniformCrew(8, 49), "8+", predict.Course2000)
			So(err, ShouldBeNil)
			somewhat, err := predictor.Compare(uniformCrew(8, 50), uniformCrew(8, 46), "8+", predict.Course2000)
			So(err, ShouldBeNil)

			Convey("Then close crews should compare at low confidence", func() {
				So(nearly.Favored, ShouldEqual, predict.FavoredA)
				So(nearly.Confidence, ShouldEqual, predict.ConfidenceLow)
			})

			Convey("Then a margin past half the pooled band should be medium", func() {
				So(somewhat.Confidence, ShouldEqual, predict.ConfidenceMedium)
			})
		})

		Convey("When a crew is empty", func() {
			_, err := predictor.Compare(nil, uniformCrew(4, 60), "4x", predict.Course2000)

			Convey("Then the empty lineup error should surface", func() {
				So(errors.Is(err, predict.ErrEmptyLineup), ShouldBeTrue)
			})
		})

		Convey("When the course is unsupported", func() {
			_, err := predictor.Compare(uniformCrew(4, 60), uniformCrew(4, 60), "4x", "250m")
			So(errors.Is(err, predict.ErrUnsupportedCourse), ShouldBeTrue)
		})
	})
}
