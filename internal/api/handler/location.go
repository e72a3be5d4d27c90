package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/sportsched/internal/api/request"
	"github.com/mcoot/sportsched/internal/api/response"
	"github.com/mcoot/sportsched/internal/model"
	"github.com/mcoot/sportsched/internal/services/location"
)

// LocationHandler handles location endpoints
type LocationHandler struct {
	locations *location.Service
}

// NewLocationHandler creates a new location handler
func NewLocationHandler(locations *location.Service) *LocationHandler {
	return &LocationHandler{locations: locations}
}

// List handles GET /api/v1/locations
func (h *LocationHandler) List(w http.ResponseWriter, r *http.Request) {
	f, sort, err := listParams(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	locations, err := h.locations.List(r.Context(), f, sort)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.NewList(locations))
}

// Get handles GET /api/v1/locations/{id}
func (h *LocationHandler) Get(w http.ResponseWriter, r *http.Request) {
	l, err := h.locations.Get(r.Context(), model.LocationID(mux.Vars(r)["id"]))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, l)
}

// Create handles POST /api/v1/locations
func (h *LocationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var patch model.LocationPatch
	if err := request.Decode(r, &patch); err != nil {
		WriteError(w, err)
		return
	}

	l, err := h.locations.Create(r.Context(), patch)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, l)
}

// Update handles PATCH /api/v1/locations/{id}
func (h *LocationHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch model.LocationPatch
	if err := request.Decode(r, &patch); err != nil {
		WriteError(w, err)
		return
	}

	l, err := h.locations.Update(r.Context(), model.LocationID(mux.Vars(r)["id"]), patch)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, l)
}

// Delete handles DELETE /api/v1/locations/{id}
func (h *LocationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.locations.Delete(r.Context(), model.LocationID(mux.Vars(r)["id"])); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}
