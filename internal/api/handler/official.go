package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/sportsched/internal/api/request"
	"github.com/mcoot/sportsched/internal/api/response"
	"github.com/mcoot/sportsched/internal/model"
	"github.com/mcoot/sportsched/internal/services/official"
)

// OfficialHandler handles official endpoints
type OfficialHandler struct {
	officials *official.Service
}

// NewOfficialHandler creates a new official handler
func NewOfficialHandler(officials *official.Service) *OfficialHandler {
	return &OfficialHandler{officials: officials}
}

// List handles GET /api/v1/officials
func (h *OfficialHandler) List(w http.ResponseWriter, r *http.Request) {
	f, sort, err := listParams(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	officials, err := h.officials.List(r.Context(), f, sort)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.NewList(officials))
}

// Get handles GET /api/v1/officials/{id}
func (h *OfficialHandler) Get(w http.ResponseWriter, r *http.Request) {
	o, err := h.officials.Get(r.Context(), model.OfficialID(mux.Vars(r)["id"]))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, o)
}

// Create handles POST /api/v1/officials
func (h *OfficialHandler) Create(w http.ResponseWriter, r *http.Request) {
	var patch model.OfficialPatch
	if err := request.Decode(r, &patch); err != nil {
		WriteError(w, err)
		return
	}

	o, err := h.officials.Create(r.Context(), patch)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, o)
}

// Update handles PATCH /api/v1/officials/{id}
func (h *OfficialHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch model.OfficialPatch
	if err := request.Decode(r, &patch); err != nil {
		WriteError(w, err)
		return
	}

	o, err := h.officials.Update(r.Context(), model.OfficialID(mux.Vars(r)["id"]), patch)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, o)
}

// Delete handles DELETE /api/v1/officials/{id}
func (h *OfficialHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.officials.Delete(r.Context(), model.OfficialID(mux.Vars(r)["id"])); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}
