package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/sportsched/internal/api/request"
	"github.com/mcoot/sportsched/internal/api/response"
	"github.com/mcoot/sportsched/internal/model"
	"github.com/mcoot/sportsched/internal/services/assignment"
)

// AssignmentHandler handles assignment endpoints
type AssignmentHandler struct {
	assignments *assignment.Controller
}

// NewAssignmentHandler creates a new assignment handler
func NewAssignmentHandler(assignments *assignment.Controller) *AssignmentHandler {
	return &AssignmentHandler{assignments: assignments}
}

// List handles GET /api/v1/assignments
func (h *AssignmentHandler) List(w http.ResponseWriter, r *http.Request) {
	f, sort, err := listParams(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	details, err := h.assignments.List(r.Context(), f, sort)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.NewList(details))
}

// Get handles GET /api/v1/assignments/{id}
func (h *AssignmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	detail, err := h.assignments.Get(r.Context(), model.AssignmentID(mux.Vars(r)["id"]))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, detail)
}

// Create handles POST /api/v1/assignments
func (h *AssignmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in model.NewAssignment
	if err := request.Decode(r, &in); err != nil {
		WriteError(w, err)
		return
	}

	a, err := h.assignments.Create(r.Context(), in)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, a)
}

// Update handles PATCH /api/v1/assignments/{id}
func (h *AssignmentHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch model.AssignmentPatch
	if err := request.Decode(r, &patch); err != nil {
		WriteError(w, err)
		return
	}

	a, err := h.assignments.Update(r.Context(), model.AssignmentID(mux.Vars(r)["id"]), patch)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, a)
}

// Transition handles POST /api/v1/assignments/{id}/transition
func (h *AssignmentHandler) Transition(w http.ResponseWriter, r *http.Request) {
	var req request.TransitionRequest
	if err := request.Decode(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	id := model.AssignmentID(mux.Vars(r)["id"])

	var (
		a   *model.Assignment
		err error
	)
	if req.ExpectedStatus != nil {
		a, err = h.assignments.TransitionFrom(r.Context(), id, *req.ExpectedStatus, req.Status)
	} else {
		a, err = h.assignments.Transition(r.Context(), id, req.Status)
	}
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, a)
}

// Delete handles DELETE /api/v1/assignments/{id}
func (h *AssignmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.assignments.Delete(r.Context(), model.AssignmentID(mux.Vars(r)["id"])); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}
