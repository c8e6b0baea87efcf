package predict

import (
	"fmt"
	"math"

	"github.com/oarbit/rigger/internal/domain/crew"
	"github.com/oarbit/rigger/pkg/metrics"
)

// Favored outcomes of a comparison.
const (
	FavoredA    = "A"
	FavoredB    = "B"
	FavoredEven = "even"
)

// Confidence buckets, derived from how far the margin reaches past the
// pooled confidence bands of the two crews.
const (
	ConfidenceLow    = "low"
	ConfidenceMedium = "medium"
	ConfidenceHigh   = "high"
)

// Comparison is the predicted head-to-head outcome of two crews over the
// same boat class and course. MarginSeconds is signed: positive means
// crew A is predicted faster.
type Comparison struct {
	TimeA         Prediction `json:"time_a"`
	TimeB         Prediction `json:"time_b"`
	MarginSeconds float64    `json:"margin_seconds"`
	Favored       string     `json:"favored"`
	Confidence    string     `json:"confidence"`
}

// Compare predicts both crews and reports the margin, the favored crew,
// and a qualitative confidence. Disjoint confidence bands yield high
// confidence; a margin beyond half the pooled band yields medium; the
// rest is low.
func (p *Predictor) Compare(lineupA, lineupB []crew.Athlete, boatClass, courseType string) (Comparison, error) {
	predA, err := p.Predict(lineupA, boatClass, courseType)
	if err != nil {
		return Comparison{}, fmt.Errorf("lineup A: %w", err)
	}

	predB, err := p.Predict(lineupB, boatClass, courseType)
	if err != nil {
		return Comparison{}, fmt.Errorf("lineup B: %w", err)
	}

	margin := predB.PredictedSeconds - predA.PredictedSeconds

	favored := FavoredEven
	switch {
	case margin > 0:
		favored = FavoredA
	case margin < 0:
		favored = FavoredB
	}

	halfA := (predA.Confidence.High - predA.Confidence.Low) / 2
	halfB := (predB.Confidence.High - predB.Confidence.Low) / 2
	pooled := halfA + halfB

	confidence := ConfidenceLow
	gap := math.Abs(margin)
	switch {
	case gap > pooled:
		confidence = ConfidenceHigh
	case gap > pooled/2:
		confidence = ConfidenceMedium
	}

	metrics.RecordComparison()

	return Comparison{
		TimeA:         predA,
		TimeB:         predB,
		MarginSeconds: margin,
		Favored:       favored,
		Confidence:    confidence,
	}, nil
}
