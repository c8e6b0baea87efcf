package api_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/oarbit/rigger/internal/adapters/http/api"
	service "github.com/oarbit/rigger/internal/app"
	"github.com/oarbit/rigger/internal/domain/boat"
	"github.com/oarbit/rigger/internal/domain/crew"
	"github.com/oarbit/rigger/internal/domain/fitness"
	"github.com/oarbit/rigger/internal/domain/predict"
	"github.com/oarbit/rigger/internal/domain/search"
	. "github.com/smartystreets/goconvey/convey"
)

// Mock implementations for testing
type mockEngine struct {
	optimizeResult api.OptimizeResult
	optimizeErr    error
	lastOptimize   api.OptimizeParams

	evalResult fitness.Result
	evalErr    error

	prediction  predict.Prediction
	predictErr  error
	lastPredict api.PredictParams

	comparison  predict.Comparison
	compareErr  error
	lastCompare api.CompareParams

	boats   []boat.Configuration
	courses []string
}

func (m *mockEngine) Optimize(ctx context.Context, params api.OptimizeParams) (api.OptimizeResult, error) {
	m.lastOptimize = params
	if m.optimizeErr != nil {
		return api.OptimizeResult{}, m.optimizeErr
	}
	return m.optimizeResult, nil
}

func (m *mockEngine) Evaluate(ctx context.Context, boatClass string, athletes []crew.Athlete, lineup crew.Lineup) (fitness.Result, error) {
	if m.evalErr != nil {
		return fitness.Result{}, m.evalErr
	}
	return m.evalResult, nil
}

func (m *mockEngine) Predict(ctx context.Context, params api.PredictParams) (predict.Prediction, error) {
	m.lastPredict = params
	if m.predictErr != nil {
		return predict.Prediction{}, m.predictErr
	}
	return m.prediction, nil
}

func (m *mockEngine) Compare(ctx context.Context, params api.CompareParams) (predict.Comparison, error) {
	m.lastCompare = params
	if m.compareErr != nil {
		return predict.Comparison{}, m.compareErr
	}
	return m.comparison, nil
}

func (m *mockEngine) Boats() []boat.Configuration {
	return m.boats
}

func (m *mockEngine) Courses() []string {
	return m.courses
}

type mockStatsProvider struct {
	stats map[string]interface{}
}

func (m *mockStatsProvider) GetStats() map[string]interface{} {
	return m.stats
}

func newMockEngine() *mockEngine {
	return &mockEngine{
		optimizeResult: api.OptimizeResult{
			RunID:     "run-1",
			BoatClass: "2-",
			Lineups: []service.OptimizedLineup{
				{
					LineupID: "lineup-1",
					RankedLineup: search.RankedLineup{
						Rank: 1,
						Lineup: crew.Lineup{Seats: []crew.Seat{
							{Number: 1, AthleteID: "bow", Side: boat.Starboard},
							{Number: 2, AthleteID: "stroke", Side: boat.Port},
						}},
						Score: 80.5,
					},
				},
			},
		},
		evalResult: fitness.Result{
			Score:     87.2,
			Breakdown: fitness.Breakdown{AverageScore: 82, AthleteCount: 5},
		},
		prediction: predict.Prediction{
			PredictedSeconds: 412.7,
			Confidence:       predict.ConfidenceRange{Low: 402.1, High: 423.3},
		},
		comparison: predict.Comparison{
			MarginSeconds: 4.2,
			Favored:       "A",
			Confidence:    "medium",
		},
		boats: []boat.Configuration{
			{Class: "2-", SeatCount: 2, SeatSides: []boat.Side{boat.Starboard, boat.Port}},
			{Class: "1x", SeatCount: 1, Sculling: true, SeatSides: []boat.Side{boat.Both}},
		},
		courses: []string{"2000m", "1500m", "1000m", "head"},
	}
}

func TestServer_Register(t *testing.T) {
	Convey("Given a new API server", t, func() {
		deps := newMockEngine()
		statsProvider := &mockStatsProvider{stats: map[string]interface{}{"runs": 0}}
		server := api.NewServer(deps, statsProvider, api.Limits{})
		mux := http.NewServeMux()

		Convey("When registering routes", func() {
			server.Register(context.Background(), mux)

			Convey("Then health endpoint should be accessible", func() {
				req := httptest.NewRequest("GET", "/healthz", nil)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)
				So(w.Code, ShouldEqual, http.StatusOK)
			})

			Convey("And stats endpoint should be accessible", func() {
				req := httptest.NewRequest("GET", "/stats", nil)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)
				So(w.Code, ShouldEqual, http.StatusOK)
			})

			Convey("And boats endpoint should be accessible", func() {
				req := httptest.NewRequest("GET", "/boats", nil)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)
				So(w.Code, ShouldEqual, http.StatusOK)
			})

			Convey("And metrics endpoint should be accessible", func() {
				req := httptest.NewRequest("GET", "/metrics", nil)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)
				So(w.Code, ShouldEqual, http.StatusOK)
			})

			Convey("And optimize endpoint should reject an empty body", func() {
				req := httptest.NewRequest("POST", "/optimize", strings.NewReader(`{}`))
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})

			Convey("And predict endpoint should reject an empty body", func() {
				req := httptest.NewRequest("POST", "/predict", strings.NewReader(`{}`))
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})

			Convey("And unknown routes should return not found", func() {
				req := httptest.NewRequest("GET", "/unknown", nil)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)
				So(w.Code, ShouldEqual, http.StatusNotFound)
			})
		})
	})
}

func TestOptimizeHandler_HandleOptimize(t *testing.T) {
	Convey("Given an optimize handler", t, func() {
		deps := newMockEngine()
		handler := api.NewOptimizeHandler(deps, api.Limits{})

		validBody := `{
			"boat_class": "2-",
			"athletes": [
				{"id": "stroke", "combined_score": 82, "side_capability": "port"},
				{"id": "bow", "combined_score": 78, "side_capability": "starboard"}
			],
			"constraints": {"required_athlete_ids": ["stroke"]},
			"options": {"generations": 50, "population_size": 30, "top_n": 2, "seed": 7}
		}`

		Convey("When handling a valid POST request", func() {
			req := httptest.NewRequest("POST", "/optimize", strings.NewReader(validBody))
			w := httptest.NewRecorder()
			handler.HandleOptimize(w, req)

			Convey("Then it should return the optimization result", func() {
				So(w.Code, ShouldEqual, http.StatusOK)

				var response api.OptimizeResult
				err := json.NewDecoder(w.Body).Decode(&response)
				So(err, ShouldBeNil)
				So(response.RunID, ShouldEqual, "run-1")
				So(response.BoatClass, ShouldEqual, "2-")
				So(len(response.Lineups), ShouldEqual, 1)
				So(response.Lineups[0].LineupID, ShouldEqual, "lineup-1")
			})

			Convey("And it should pass the decoded parameters through", func() {
				So(deps.lastOptimize.BoatClass, ShouldEqual, "2-")
				So(len(deps.lastOptimize.Athletes), ShouldEqual, 2)
				So(deps.lastOptimize.Constraints.RequiredAthleteIDs, ShouldResemble, []string{"stroke"})
				So(deps.lastOptimize.Generations, ShouldEqual, 50)
				So(deps.lastOptimize.PopulationSize, ShouldEqual, 30)
				So(deps.lastOptimize.TopN, ShouldEqual, 2)
				So(deps.lastOptimize.Seed, ShouldNotBeNil)
				So(*deps.lastOptimize.Seed, ShouldEqual, 7)
			})
		})

		Convey("When handling an invalid JSON request", func() {
			req := httptest.NewRequest("POST", "/optimize", strings.NewReader(`{invalid`))
			w := httptest.NewRecorder()
			handler.HandleOptimize(w, req)

			Convey("Then it should return bad request status", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When the boat class is missing", func() {
			body := `{"athletes": [{"id": "a", "combined_score": 70}]}`
			req := httptest.NewRequest("POST", "/optimize", strings.NewReader(body))
			w := httptest.NewRecorder()
			handler.HandleOptimize(w, req)

			Convey("Then it should return bad request status", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)

				var response errorResponse
				err := json.NewDecoder(w.Body).Decode(&response)
				So(err, ShouldBeNil)
				So(response.Code, ShouldEqual, "bad_request")
				So(response.Message, ShouldContainSubstring, "missing boat_class")
			})
		})

		Convey("When the athletes list is missing", func() {
			body := `{"boat_class": "2-"}`
			req := httptest.NewRequest("POST", "/optimize", strings.NewReader(body))
			w := httptest.NewRecorder()
			handler.HandleOptimize(w, req)

			Convey("Then it should return bad request status", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When generations exceed the configured limit", func() {
			limited := api.NewOptimizeHandler(deps, api.Limits{MaxGenerations: 40})
			req := httptest.NewRequest("POST", "/optimize", strings.NewReader(validBody))
			w := httptest.NewRecorder()
			limited.HandleOptimize(w, req)

			Convey("Then it should return bad request status", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)

				var response errorResponse
				err := json.NewDecoder(w.Body).Decode(&response)
				So(err, ShouldBeNil)
				So(response.Message, ShouldContainSubstring, "above limit 40")
			})
		})

		Convey("When the constraints are infeasible", func() {
			deps.optimizeErr = fmt.Errorf("%w: 3 required for 2 seats", search.ErrInfeasibleConstraints)
			req := httptest.NewRequest("POST", "/optimize", strings.NewReader(validBody))
			w := httptest.NewRecorder()
			handler.HandleOptimize(w, req)

			Convey("Then it should map the error to bad request", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)

				var response errorResponse
				err := json.NewDecoder(w.Body).Decode(&response)
				So(err, ShouldBeNil)
				So(response.Code, ShouldEqual, "infeasible_constraints")
			})
		})

		Convey("When the boat class is unknown", func() {
			deps.optimizeErr = fmt.Errorf("%w: %q", boat.ErrUnknownClass, "9x")
			req := httptest.NewRequest("POST", "/optimize", strings.NewReader(validBody))
			w := httptest.NewRecorder()
			handler.HandleOptimize(w, req)

			Convey("Then it should map the error to bad request", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)

				var response errorResponse
				err := json.NewDecoder(w.Body).Decode(&response)
				So(err, ShouldBeNil)
				So(response.Code, ShouldEqual, "unknown_boat_class")
			})
		})

		Convey("When the service fails unexpectedly", func() {
			deps.optimizeErr = fmt.Errorf("worker pool wedged")
			req := httptest.NewRequest("POST", "/optimize", strings.NewReader(validBody))
			w := httptest.NewRecorder()
			handler.HandleOptimize(w, req)

			Convey("Then it should return internal server error", func() {
				So(w.Code, ShouldEqual, http.StatusInternalServerError)

				var response errorResponse
				err := json.NewDecoder(w.Body).Decode(&response)
				So(err, ShouldBeNil)
				So(response.Code, ShouldEqual, "internal_error")
			})
		})

		Convey("When handling a non-POST request", func() {
			req := httptest.NewRequest("GET", "/optimize", nil)
			w := httptest.NewRecorder()
			handler.HandleOptimize(w, req)

			Convey("Then it should return not found status", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
			})
		})
	})
}

func TestEvaluateHandler_HandleEvaluate(t *testing.T) {
	Convey("Given an evaluate handler", t, func() {
		deps := newMockEngine()
		handler := api.NewEvaluateHandler(deps)

		validBody := `{
			"boat_class": "2-",
			"athletes": [
				{"id": "stroke", "combined_score": 82, "side_capability": "port"},
				{"id": "bow", "combined_score": 78, "side_capability": "starboard"}
			],
			"lineup": {"seats": [
				{"seat": 1, "athlete_id": "bow", "side": "starboard"},
				{"seat": 2, "athlete_id": "stroke", "side": "port"}
			]}
		}`

		Convey("When handling a valid POST request", func() {
			req := httptest.NewRequest("POST", "/evaluate", strings.NewReader(validBody))
			w := httptest.NewRecorder()
			handler.HandleEvaluate(w, req)

			Convey("Then it should return the fitness result", func() {
				So(w.Code, ShouldEqual, http.StatusOK)

				var response fitness.Result
				err := json.NewDecoder(w.Body).Decode(&response)
				So(err, ShouldBeNil)
				So(response.Score, ShouldEqual, 87.2)
				So(response.Breakdown.AverageScore, ShouldEqual, 82)
			})
		})

		Convey("When the lineup has no seats", func() {
			body := `{
				"boat_class": "2-",
				"athletes": [{"id": "stroke", "combined_score": 82}],
				"lineup": {"seats": []}
			}`
			req := httptest.NewRequest("POST", "/evaluate", strings.NewReader(body))
			w := httptest.NewRecorder()
			handler.HandleEvaluate(w, req)

			Convey("Then it should return bad request status", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)

				var response errorResponse
				err := json.NewDecoder(w.Body).Decode(&response)
				So(err, ShouldBeNil)
				So(response.Message, ShouldContainSubstring, "missing lineup seats")
			})
		})

		Convey("When a seat number is out of range", func() {
			body := `{
				"boat_class": "2-",
				"athletes": [{"id": "stroke", "combined_score": 82}],
				"lineup": {"seats": [{"seat": 0, "athlete_id": "stroke", "side": "port"}]}
			}`
			req := httptest.NewRequest("POST", "/evaluate", strings.NewReader(body))
			w := httptest.NewRecorder()
			handler.HandleEvaluate(w, req)

			Convey("Then it should return the invalid_seat code", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)

				var response errorResponse
				err := json.NewDecoder(w.Body).Decode(&response)
				So(err, ShouldBeNil)
				So(response.Code, ShouldEqual, "invalid_seat")
			})
		})

		Convey("When a seat side is outside the vocabulary", func() {
			body := `{
				"boat_class": "2-",
				"athletes": [{"id": "stroke", "combined_score": 82}],
				"lineup": {"seats": [{"seat": 1, "athlete_id": "stroke", "side": "leeward"}]}
			}`
			req := httptest.NewRequest("POST", "/evaluate", strings.NewReader(body))
			w := httptest.NewRecorder()
			handler.HandleEvaluate(w, req)

			Convey("Then it should return the invalid_side code", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)

				var response errorResponse
				err := json.NewDecoder(w.Body).Decode(&response)
				So(err, ShouldBeNil)
				So(response.Code, ShouldEqual, "invalid_side")
			})
		})

		Convey("When the roster is invalid", func() {
			deps.evalErr = fmt.Errorf("%w: %q", crew.ErrUnknownAthlete, "ghost")
			req := httptest.NewRequest("POST", "/evaluate", strings.NewReader(validBody))
			w := httptest.NewRecorder()
			handler.HandleEvaluate(w, req)

			Convey("Then it should map the error to bad request", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)

				var response errorResponse
				err := json.NewDecoder(w.Body).Decode(&response)
				So(err, ShouldBeNil)
				So(response.Code, ShouldEqual, "invalid_roster")
			})
		})

		Convey("When handling a non-POST request", func() {
			req := httptest.NewRequest("GET", "/evaluate", nil)
			w := httptest.NewRecorder()
			handler.HandleEvaluate(w, req)

			Convey("Then it should return not found status", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
			})
		})
	})
}

func TestPredictHandler_HandlePredict(t *testing.T) {
	Convey("Given a predict handler", t, func() {
		deps := newMockEngine()
		handler := api.NewPredictHandler(deps)

		Convey("When handling a valid request with explicit athletes", func() {
			body := `{
				"boat_class": "2x",
				"athletes": [
					{"id": "a", "combined_score": 75},
					{"id": "b", "combined_score": 71}
				]
			}`
			req := httptest.NewRequest("POST", "/predict", strings.NewReader(body))
			w := httptest.NewRecorder()
			handler.HandlePredict(w, req)

			Convey("Then it should return the prediction", func() {
				So(w.Code, ShouldEqual, http.StatusOK)

				var response predict.Prediction
				err := json.NewDecoder(w.Body).Decode(&response)
				So(err, ShouldBeNil)
				So(response.PredictedSeconds, ShouldEqual, 412.7)
				So(response.Confidence.Low, ShouldBeLessThan, response.Confidence.High)
			})

			Convey("And a missing course type should default to 2000m", func() {
				So(deps.lastPredict.CourseType, ShouldEqual, "2000m")
			})
		})

		Convey("When an explicit course type is given", func() {
			body := `{
				"boat_class": "2x",
				"course_type": "head",
				"athletes": [{"id": "a", "combined_score": 75}]
			}`
			req := httptest.NewRequest("POST", "/predict", strings.NewReader(body))
			w := httptest.NewRecorder()
			handler.HandlePredict(w, req)

			Convey("Then it should pass through unchanged", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.lastPredict.CourseType, ShouldEqual, "head")
			})
		})

		Convey("When predicting a stored lineup by id", func() {
			body := `{"lineup_id": "lineup-1"}`
			req := httptest.NewRequest("POST", "/predict", strings.NewReader(body))
			w := httptest.NewRecorder()
			handler.HandlePredict(w, req)

			Convey("Then no boat class or athletes are required", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.lastPredict.Crew.LineupID, ShouldEqual, "lineup-1")
			})
		})

		Convey("When neither a lineup id nor athletes are given", func() {
			body := `{"boat_class": "2x"}`
			req := httptest.NewRequest("POST", "/predict", strings.NewReader(body))
			w := httptest.NewRecorder()
			handler.HandlePredict(w, req)

			Convey("Then it should return bad request status", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When the stored lineup has expired", func() {
			deps.predictErr = fmt.Errorf("%w: %q", service.ErrLineupNotFound, "gone")
			body := `{"lineup_id": "gone"}`
			req := httptest.NewRequest("POST", "/predict", strings.NewReader(body))
			w := httptest.NewRecorder()
			handler.HandlePredict(w, req)

			Convey("Then it should return not found status", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)

				var response errorResponse
				err := json.NewDecoder(w.Body).Decode(&response)
				So(err, ShouldBeNil)
				So(response.Code, ShouldEqual, "lineup_not_found")
			})
		})

		Convey("When the course type is unsupported", func() {
			deps.predictErr = fmt.Errorf("%w: %q", predict.ErrUnsupportedCourse, "5000m")
			body := `{
				"boat_class": "2x",
				"course_type": "5000m",
				"athletes": [{"id": "a", "combined_score": 75}]
			}`
			req := httptest.NewRequest("POST", "/predict", strings.NewReader(body))
			w := httptest.NewRecorder()
			handler.HandlePredict(w, req)

			Convey("Then it should map the error to bad request", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)

				var response errorResponse
				err := json.NewDecoder(w.Body).Decode(&response)
				So(err, ShouldBeNil)
				So(response.Code, ShouldEqual, "unsupported_course_type")
			})
		})

		Convey("When the service has not started", func() {
			deps.predictErr = service.ErrNotStarted
			body := `{"lineup_id": "lineup-1"}`
			req := httptest.NewRequest("POST", "/predict", strings.NewReader(body))
			w := httptest.NewRecorder()
			handler.HandlePredict(w, req)

			Convey("Then it should return service unavailable", func() {
				So(w.Code, ShouldEqual, http.StatusServiceUnavailable)

				var response errorResponse
				err := json.NewDecoder(w.Body).Decode(&response)
				So(err, ShouldBeNil)
				So(response.Code, ShouldEqual, "not_ready")
			})
		})
	})
}

func TestCompareHandler_HandleCompare(t *testing.T) {
	Convey("Given a compare handler", t, func() {
		deps := newMockEngine()
		handler := api.NewCompareHandler(deps)

		validBody := `{
			"boat_class": "2x",
			"course_type": "2000m",
			"athletes": [
				{"id": "a", "combined_score": 80},
				{"id": "b", "combined_score": 76},
				{"id": "c", "combined_score": 64},
				{"id": "d", "combined_score": 58}
			],
			"lineup_a": ["a", "b"],
			"lineup_b": ["c", "d"]
		}`

		Convey("When handling a valid POST request", func() {
			req := httptest.NewRequest("POST", "/compare", strings.NewReader(validBody))
			w := httptest.NewRecorder()
			handler.HandleCompare(w, req)

			Convey("Then it should return the comparison", func() {
				So(w.Code, ShouldEqual, http.StatusOK)

				var response predict.Comparison
				err := json.NewDecoder(w.Body).Decode(&response)
				So(err, ShouldBeNil)
				So(response.Favored, ShouldEqual, "A")
				So(response.MarginSeconds, ShouldEqual, 4.2)
			})

			Convey("And each side should resolve from the shared athletes", func() {
				So(deps.lastCompare.CrewA.AthleteIDs, ShouldResemble, []string{"a", "b"})
				So(deps.lastCompare.CrewB.AthleteIDs, ShouldResemble, []string{"c", "d"})
				So(len(deps.lastCompare.Athletes), ShouldEqual, 4)
			})
		})

		Convey("When both sides are stored lineup ids", func() {
			body := `{"course_type": "head", "lineup_a_id": "run-a", "lineup_b_id": "run-b"}`
			req := httptest.NewRequest("POST", "/compare", strings.NewReader(body))
			w := httptest.NewRecorder()
			handler.HandleCompare(w, req)

			Convey("Then no shared athletes are required", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.lastCompare.CrewA.LineupID, ShouldEqual, "run-a")
				So(deps.lastCompare.CrewB.LineupID, ShouldEqual, "run-b")
			})
		})

		Convey("When one side is missing", func() {
			body := `{
				"boat_class": "2x",
				"athletes": [{"id": "a", "combined_score": 80}],
				"lineup_a": ["a"]
			}`
			req := httptest.NewRequest("POST", "/compare", strings.NewReader(body))
			w := httptest.NewRecorder()
			handler.HandleCompare(w, req)

			Convey("Then it should return bad request status", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)

				var response errorResponse
				err := json.NewDecoder(w.Body).Decode(&response)
				So(err, ShouldBeNil)
				So(response.Message, ShouldContainSubstring, "missing lineup_b")
			})
		})

		Convey("When id lists are given without the shared athletes", func() {
			body := `{"boat_class": "2x", "lineup_a": ["a"], "lineup_b": ["b"]}`
			req := httptest.NewRequest("POST", "/compare", strings.NewReader(body))
			w := httptest.NewRecorder()
			handler.HandleCompare(w, req)

			Convey("Then it should return bad request status", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When the crews row different boat classes", func() {
			deps.compareErr = fmt.Errorf("%w: crew A is %q, crew B is %q", service.ErrClassMismatch, "4+", "1x")
			req := httptest.NewRequest("POST", "/compare", strings.NewReader(validBody))
			w := httptest.NewRecorder()
			handler.HandleCompare(w, req)

			Convey("Then it should map the error to bad request", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)

				var response errorResponse
				err := json.NewDecoder(w.Body).Decode(&response)
				So(err, ShouldBeNil)
				So(response.Code, ShouldEqual, "class_mismatch")
			})
		})
	})
}

func TestBoatsHandler_HandleGetBoats(t *testing.T) {
	Convey("Given a boats handler", t, func() {
		deps := newMockEngine()
		handler := api.NewBoatsHandler(deps)

		Convey("When handling a GET request", func() {
			req := httptest.NewRequest("GET", "/boats", nil)
			w := httptest.NewRecorder()
			handler.HandleGetBoats(w, req)

			Convey("Then it should return the catalog", func() {
				So(w.Code, ShouldEqual, http.StatusOK)

				var response boatsResponse
				err := json.NewDecoder(w.Body).Decode(&response)
				So(err, ShouldBeNil)
				So(len(response.BoatClasses), ShouldEqual, 2)
				So(response.BoatClasses[0].Class, ShouldEqual, "2-")
				So(response.CourseTypes, ShouldResemble, []string{"2000m", "1500m", "1000m", "head"})
			})
		})

		Convey("When handling a non-GET request", func() {
			req := httptest.NewRequest("POST", "/boats", nil)
			w := httptest.NewRecorder()
			handler.HandleGetBoats(w, req)

			Convey("Then it should return not found status", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
			})
		})
	})
}

func TestHealthHandler_HandleHealth(t *testing.T) {
	Convey("Given a health handler", t, func() {
		handler := api.NewHealthHandler()

		Convey("When handling health check request", func() {
			req := httptest.NewRequest("GET", "/healthz", nil)
			w := httptest.NewRecorder()
			handler.HandleHealth(w, req)

			Convey("Then it should return OK status with liveness fields", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldContainSubstring, "application/json")

				var response healthResponse
				err := json.NewDecoder(w.Body).Decode(&response)
				So(err, ShouldBeNil)
				So(response.Status, ShouldEqual, "ok")
				So(response.Service, ShouldEqual, "rigger")
				So(response.Version, ShouldNotBeEmpty)
			})
		})
	})
}

func TestStatsHandler_HandleStats(t *testing.T) {
	Convey("Given a stats handler", t, func() {
		mockStats := &mockStatsProvider{
			stats: map[string]interface{}{
				"runs":        12,
				"predictions": 30,
			},
		}
		handler := api.NewStatsHandler(mockStats)

		Convey("When handling stats request", func() {
			req := httptest.NewRequest("GET", "/stats", nil)
			w := httptest.NewRecorder()
			handler.HandleStats(w, req)

			Convey("Then it should return stats", func() {
				So(w.Code, ShouldEqual, http.StatusOK)

				var response map[string]interface{}
				err := json.NewDecoder(w.Body).Decode(&response)
				So(err, ShouldBeNil)
				So(response["runs"], ShouldEqual, 12)
				So(response["predictions"], ShouldEqual, 30)
			})
		})
	})
}

// Local types for testing
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type healthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
}

type boatsResponse struct {
	BoatClasses []boat.Configuration `json:"boat_classes"`
	CourseTypes []string             `json:"course_types"`
}
