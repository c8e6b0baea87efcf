package rosterlab

import "time"

// Config holds configuration for the roster lab run
type Config struct {
	BaseURL     string        // Base URL of the service
	NumAthletes int           // Number of athletes to generate
	BoatClass   string        // Boat class to optimize for
	CourseType  string        // Course type for predictions
	Runs        int           // Number of optimization runs
	TopN        int           // Number of lineups per run
	Seed        int64         // Base search seed, 0 means random
	Workers     int           // Number of concurrent workers
	Timeout     time.Duration // HTTP request timeout
	RosterFile  string        // Roster file to load instead of generating
	OutputFile  string        // Output file for the roster
	LogFile     string        // Log file for lab output
	Verbose     bool          // Enable verbose logging
}

// Athlete is one roster entry as the optimizer accepts it.
type Athlete struct {
	ID             string  `json:"id"                        yaml:"id"`
	DisplayName    string  `json:"display_name"              yaml:"display_name"`
	CombinedScore  float64 `json:"combined_score"            yaml:"combined_score"`
	IsCoxswain     bool    `json:"is_coxswain,omitempty"     yaml:"is_coxswain,omitempty"`
	SideCapability string  `json:"side_capability,omitempty" yaml:"side_capability,omitempty"`
}

// Roster is the athlete pool sent with every optimization request and the
// document shape of saved roster files.
type Roster struct {
	Athletes []Athlete `json:"athletes" yaml:"athletes"`
}

// byID indexes the roster for verification lookups.
func (r Roster) byID() map[string]Athlete {
	index := make(map[string]Athlete, len(r.Athletes))
	for _, a := range r.Athletes {
		index[a.ID] = a
	}
	return index
}

// Seat is one filled seat of a returned lineup.
type Seat struct {
	Number    int    `json:"seat"`
	AthleteID string `json:"athlete_id"`
	Side      string `json:"side"`
}

// Lineup is a full seat assignment plus the coxswain slot.
type Lineup struct {
	Seats      []Seat `json:"seats"`
	CoxswainID string `json:"coxswain_id,omitempty"`
}

// Constraints narrows the search: required and excluded athletes plus an
// optional pinned coxswain.
type Constraints struct {
	RequiredAthleteIDs []string `json:"required_athlete_ids,omitempty"`
	ExcludedAthleteIDs []string `json:"excluded_athlete_ids,omitempty"`
	CoxswainAthleteID  string   `json:"coxswain_athlete_id,omitempty"`
}

// OptimizeOptions tunes a single search run.
type OptimizeOptions struct {
	Generations    int    `json:"generations,omitempty"`
	PopulationSize int    `json:"population_size,omitempty"`
	TopN           int    `json:"top_n,omitempty"`
	Seed           *int64 `json:"seed,omitempty"`
}

// OptimizeRequest is the POST /optimize body.
type OptimizeRequest struct {
	BoatClass   string          `json:"boat_class"`
	Athletes    []Athlete       `json:"athletes"`
	Constraints Constraints     `json:"constraints"`
	Options     OptimizeOptions `json:"options"`
}

// Breakdown itemizes one lineup's fitness score.
type Breakdown struct {
	AverageScore        float64 `json:"average_score"`
	CoxswainBonus       float64 `json:"coxswain_bonus"`
	SideMismatchPenalty float64 `json:"side_mismatch_penalty"`
	ConstraintPenalty   float64 `json:"constraint_penalty"`
	AthleteCount        int     `json:"athlete_count"`
}

// RankedLineup is one entry of an optimization result.
type RankedLineup struct {
	LineupID  string    `json:"lineup_id"`
	Rank      int       `json:"rank"`
	Lineup    Lineup    `json:"lineup"`
	Score     float64   `json:"score"`
	Breakdown Breakdown `json:"breakdown"`
}

// OptimizeResponse is the POST /optimize response.
type OptimizeResponse struct {
	RunID     string         `json:"run_id"`
	BoatClass string         `json:"boat_class"`
	Lineups   []RankedLineup `json:"lineups"`
}

// EvaluateRequest is the POST /evaluate body.
type EvaluateRequest struct {
	BoatClass string    `json:"boat_class"`
	Athletes  []Athlete `json:"athletes"`
	Lineup    Lineup    `json:"lineup"`
}

// FitnessResult is the POST /evaluate response.
type FitnessResult struct {
	Lineup    Lineup    `json:"lineup"`
	Score     float64   `json:"score"`
	Breakdown Breakdown `json:"breakdown"`
}

// PredictRequest is the POST /predict body for a cached lineup.
type PredictRequest struct {
	LineupID   string `json:"lineup_id"`
	CourseType string `json:"course_type,omitempty"`
}

// ConfidenceRange bounds a prediction in seconds.
type ConfidenceRange struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// PredictionBreakdown itemizes how a predicted time was assembled.
type PredictionBreakdown struct {
	BaseSeconds        float64 `json:"base_time_seconds"`
	ScoreAdjustSeconds float64 `json:"score_adjustment_seconds"`
	BoatClassFactor    float64 `json:"boat_class_factor"`
	CourseFactor       float64 `json:"course_factor"`
}

// Prediction is the POST /predict response.
type Prediction struct {
	PredictedSeconds float64             `json:"predicted_time_seconds"`
	Confidence       ConfidenceRange     `json:"confidence_range_seconds"`
	Breakdown        PredictionBreakdown `json:"breakdown"`
}

// CompareRequest is the POST /compare body for two cached lineups.
type CompareRequest struct {
	CourseType string `json:"course_type"`
	LineupAID  string `json:"lineup_a_id"`
	LineupBID  string `json:"lineup_b_id"`
}

// Comparison is the POST /compare response.
type Comparison struct {
	TimeA         Prediction `json:"time_a"`
	TimeB         Prediction `json:"time_b"`
	MarginSeconds float64    `json:"margin_seconds"`
	Favored       string     `json:"favored"`
	Confidence    string     `json:"confidence"`
}

// BoatConfiguration describes one boat class from the catalog.
type BoatConfiguration struct {
	Class       string   `json:"boat_class"`
	SeatCount   int      `json:"seat_count"`
	HasCoxswain bool     `json:"has_coxswain"`
	Sculling    bool     `json:"sculling"`
	SeatSides   []string `json:"seat_sides"`
}

// BoatsResponse is the GET /boats response.
type BoatsResponse struct {
	BoatClasses []BoatConfiguration `json:"boat_classes"`
	CourseTypes []string            `json:"course_types"`
}

// apiError is the error body returned by the service on non-2xx statuses.
type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// healthStatus is the GET /healthz response.
type healthStatus struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
}

// Stats holds lab statistics
type Stats struct {
	AthletesGenerated    int
	OptimizeRuns         int
	OptimizeFailed       int
	LineupsRanked        int
	LineupsVerified      int
	VerificationWarnings int
	EvaluationsRun       int
	PredictionsRetrieved int
	PredictionsFailed    int
	ComparisonsRun       int
	StartTime            time.Time
	EndTime              time.Time
	Duration             time.Duration
}
