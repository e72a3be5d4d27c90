package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/sportsched/internal/api/request"
	"github.com/mcoot/sportsched/internal/api/response"
	"github.com/mcoot/sportsched/internal/model"
	"github.com/mcoot/sportsched/internal/services/game"
)

// GameHandler handles game endpoints
type GameHandler struct {
	games *game.Service
}

// NewGameHandler creates a new game handler
func NewGameHandler(games *game.Service) *GameHandler {
	return &GameHandler{games: games}
}

// List handles GET /api/v1/games
func (h *GameHandler) List(w http.ResponseWriter, r *http.Request) {
	f, sort, err := listParams(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	games, err := h.games.List(r.Context(), f, sort)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.NewList(games))
}

// Get handles GET /api/v1/games/{id}
func (h *GameHandler) Get(w http.ResponseWriter, r *http.Request) {
	g, err := h.games.Get(r.Context(), model.GameID(mux.Vars(r)["id"]))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, g)
}

// Create handles POST /api/v1/games
func (h *GameHandler) Create(w http.ResponseWriter, r *http.Request) {
	var patch model.GamePatch
	if err := request.Decode(r, &patch); err != nil {
		WriteError(w, err)
		return
	}

	g, err := h.games.Create(r.Context(), patch)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, g)
}

// Update handles PATCH /api/v1/games/{id}
func (h *GameHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch model.GamePatch
	if err := request.Decode(r, &patch); err != nil {
		WriteError(w, err)
		return
	}

	g, err := h.games.Update(r.Context(), model.GameID(mux.Vars(r)["id"]), patch)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, g)
}

// Delete handles DELETE /api/v1/games/{id}
func (h *GameHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.games.Delete(r.Context(), model.GameID(mux.Vars(r)["id"])); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}
