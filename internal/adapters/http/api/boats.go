// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"

	"github.com/oarbit/rigger/internal/domain/boat"
)

// BoatsDependencies defines the interface for boat catalog requests.
type BoatsDependencies interface {
	Boats() []boat.Configuration
	Courses() []string
}

// BoatsHandler serves the supported boat classes and course types.
type BoatsHandler struct {
	deps BoatsDependencies
}

// NewBoatsHandler creates a new boats handler.
func NewBoatsHandler(deps BoatsDependencies) *BoatsHandler {
	return &BoatsHandler{deps: deps}
}

// boatsResponse lists everything a client can ask the engine to work with.
type boatsResponse struct {
	BoatClasses []boat.Configuration `json:"boat_classes"`
	CourseTypes []string             `json:"course_types"`
}

// HandleGetBoats handles GET /boats requests.
func (h *BoatsHandler) HandleGetBoats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, boatsResponse{
		BoatClasses: h.deps.Boats(),
		CourseTypes: h.deps.Courses(),
	})
}
