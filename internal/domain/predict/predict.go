// Package predict estimates race times for a crew from its combined
// scores: a fixed calibration table anchors an elite reference time per
// boat class and course, the crew's average score shifts the estimate
// with square-root dampening, and intra-crew score spread widens the
// confidence band.
package predict

import (
	"fmt"
	"math"

	"github.com/samber/lo"

	"github.com/oarbit/rigger/internal/domain/boat"
	"github.com/oarbit/rigger/internal/domain/crew"
	"github.com/oarbit/rigger/pkg/metrics"
)

// Course types understood by the calibration table. Sprint courses carry
// a fixed distance; head races use a per-meter pace over a configurable
// distance.
const (
	Course2000 = "2000m"
	Course1500 = "1500m"
	Course1000 = "1000m"
	CourseHead = "head"
)

// Model constants. The score adjustment is anchored so a crew at the
// reference average gives up a fixed fraction of the elite base time,
// shrinking with square-root dampening as the average climbs toward the
// elite score.
const (
	eliteScore          = 100.0
	referenceScore      = 50.0
	slowdownAtReference = 0.15 // fraction of base time a reference-average crew gives up
	bandPerSpreadPoint  = 0.6  // seconds of confidence band per point of score stddev, at the 2000m eight
	anchorSeconds       = 320.0
	standardMeters      = 2000.0
	defaultHeadMeters   = 4800.0 // Head of the Charles distance
	defaultMinimumBand  = 1.5    // seconds
)

// calibration holds the idealized elite reference for one boat class:
// its 2000m time and its per-meter head-race pace.
type calibration struct {
	base2000 float64 // seconds over 2000m
	headPace float64 // seconds per meter at head-race effort
}

// classCalibration is keyed by boat class. The eight anchors the table;
// every boatClassFactor is reported relative to it.
var classCalibration = map[string]calibration{
	"8+": {base2000: 320, headPace: 0.182},
	"4x": {base2000: 334, headPace: 0.190},
	"4-": {base2000: 350, headPace: 0.199},
	"4+": {base2000: 358, headPace: 0.203},
	"2x": {base2000: 366, headPace: 0.208},
	"2-": {base2000: 372, headPace: 0.211},
	"1x": {base2000: 395, headPace: 0.224},
}

// courseScales maps a sprint course to its fraction of the 2000m base
// time. Shorter pieces run at a hotter pace, so the scale sits below the
// plain distance ratio.
var courseScales = map[string]float64{
	Course2000: 1.0,
	Course1500: 0.735,
	Course1000: 0.48,
}

// Courses lists the supported course types.
func Courses() []string {
	return []string{Course2000, Course1500, Course1000, CourseHead}
}

// ConfidenceRange bounds a prediction in seconds.
type ConfidenceRange struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// Breakdown explains how a prediction was assembled.
type Breakdown struct {
	BaseSeconds        float64 `json:"base_time_seconds"`
	ScoreAdjustSeconds float64 `json:"score_adjustment_seconds"`
	BoatClassFactor    float64 `json:"boat_class_factor"`
	CourseFactor       float64 `json:"course_factor"`
}

// Prediction is a race time estimate with its confidence band. Produced
// fresh per call; nothing is retained.
type Prediction struct {
	PredictedSeconds float64         `json:"predicted_time_seconds"`
	Confidence       ConfidenceRange `json:"confidence_range_seconds"`
	Breakdown        Breakdown       `json:"breakdown"`
}

// Option applies a configuration option to the Predictor.
type Option func(*Predictor)

// WithHeadRaceMeters sets the head-race distance.
func WithHeadRaceMeters(meters float64) Option {
	return func(p *Predictor) {
		if meters > 0 {
			p.headRaceMeters = meters
		}
	}
}

// WithMinimumBand sets the confidence band floor in seconds.
func WithMinimumBand(seconds float64) Option {
	return func(p *Predictor) {
		if seconds > 0 {
			p.minimumBand = seconds
		}
	}
}

// Predictor estimates race times. It is stateless between calls and safe
// for concurrent use.
type Predictor struct {
	headRaceMeters float64
	minimumBand    float64
}

// New creates a Predictor with configuration options.
func New(opts ...Option) *Predictor {
	p := &Predictor{
		headRaceMeters: defaultHeadMeters,
		minimumBand:    defaultMinimumBand,
	}

	// Apply all options
	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Predict estimates the race time for the given crew. The crew's average
// combined score shifts the elite base time; callers pass the rowing crew
// only, so a coxswain's score never skews the propulsion average.
func (p *Predictor) Predict(athletes []crew.Athlete, boatClass, courseType string) (Prediction, error) {
	prediction, err := p.predict(athletes, boatClass, courseType)
	if err != nil {
		metrics.RecordPredictionError()
		return Prediction{}, err
	}
	metrics.RecordPrediction()
	return prediction, nil
}

func (p *Predictor) predict(athletes []crew.Athlete, boatClass, courseType string) (Prediction, error) {
	cfg, err := boat.Resolve(boatClass)
	if err != nil {
		return Prediction{}, err
	}

	cal, ok := classCalibration[cfg.Class]
	if !ok {
		return Prediction{}, fmt.Errorf("%w: no calibration for %q", boat.ErrUnknownClass, cfg.Class)
	}

	var base, courseFactor float64
	switch courseType {
	case Course2000, Course1500, Course1000:
		scale := courseScales[courseType]
		base = cal.base2000 * scale
		courseFactor = scale
	case CourseHead:
		base = cal.headPace * p.headRaceMeters
		courseFactor = p.headRaceMeters / standardMeters
	default:
		return Prediction{}, fmt.Errorf("%w: %q", ErrUnsupportedCourse, courseType)
	}

	if len(athletes) == 0 {
		return Prediction{}, ErrEmptyLineup
	}

	scores := lo.Map(athletes, func(a crew.Athlete, _ int) float64 {
		return a.CombinedScore
	})
	average := meanOf(scores)
	spread := stddevOf(scores, average)

	deficit := eliteScore - average
	if deficit < 0 {
		deficit = 0
	}
	adjust := slowdownAtReference * base * math.Sqrt(deficit/(eliteScore-referenceScore))
	predicted := base + adjust

	band := bandPerSpreadPoint * spread * (base / anchorSeconds)
	if band < p.minimumBand {
		band = p.minimumBand
	}

	return Prediction{
		PredictedSeconds: predicted,
		Confidence: ConfidenceRange{
			Low:  predicted - band,
			High: predicted + band,
		},
		Breakdown: Breakdown{
			BaseSeconds:        base,
			ScoreAdjustSeconds: adjust,
			BoatClassFactor:    cal.base2000 / anchorSeconds,
			CourseFactor:       courseFactor,
		},
	}, nil
}

// meanOf is the arithmetic mean, zero for an empty slice.
func meanOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return lo.Sum(values) / float64(len(values))
}

// stddevOf is the sample standard deviation (n-1 denominator), zero
// below two samples.
func stddevOf(values []float64, mean float64) float64 {
	n := len(values)
	if n < 2 {
		return 0
	}
	sumSq := 0.0
	for _, v := range values {
		diff := v - mean
		sumSq += diff * diff
	}
	return math.Sqrt(sumSq / float64(n-1))
}
