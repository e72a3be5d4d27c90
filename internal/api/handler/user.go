package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/sportsched/internal/api/middleware"
	"github.com/mcoot/sportsched/internal/api/request"
	"github.com/mcoot/sportsched/internal/api/response"
	"github.com/mcoot/sportsched/internal/model"
	"github.com/mcoot/sportsched/internal/services/user"
)

// UserHandler handles user management endpoints.
// Only superadmins may create, change or remove superadmin accounts.
type UserHandler struct {
	users *user.Service
}

// NewUserHandler creates a new user handler
func NewUserHandler(users *user.Service) *UserHandler {
	return &UserHandler{users: users}
}

// List handles GET /api/v1/users
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	f, sort, err := listParams(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	users, err := h.users.List(r.Context(), f, sort)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.NewList(response.UsersFromModel(users)))
}

// Get handles GET /api/v1/users/{id}
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	u, err := h.users.Get(r.Context(), model.UserID(mux.Vars(r)["id"]))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.UserFromModel(u))
}

// Create handles POST /api/v1/users
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var patch model.UserPatch
	if err := request.Decode(r, &patch); err != nil {
		WriteError(w, err)
		return
	}

	if patch.Role != nil && *patch.Role == model.RoleSuperadmin && !isSuperadmin(r) {
		WriteError(w, NewForbiddenError("Only a superadmin may create superadmins"))
		return
	}

	u, err := h.users.Create(r.Context(), patch)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.UserFromModel(u))
}

// Update handles PATCH /api/v1/users/{id}
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch model.UserPatch
	if err := request.Decode(r, &patch); err != nil {
		WriteError(w, err)
		return
	}

	id := model.UserID(mux.Vars(r)["id"])
	if !isSuperadmin(r) {
		target, err := h.users.Get(r.Context(), id)
		if err != nil {
			WriteError(w, err)
			return
		}
		if target.Role == model.RoleSuperadmin || (patch.Role != nil && *patch.Role == model.RoleSuperadmin) {
			WriteError(w, NewForbiddenError("Only a superadmin may change superadmins"))
			return
		}
	}

	u, err := h.users.Update(r.Context(), id, patch)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.UserFromModel(u))
}

// Delete handles DELETE /api/v1/users/{id}
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := model.UserID(mux.Vars(r)["id"])
	if !isSuperadmin(r) {
		target, err := h.users.Get(r.Context(), id)
		if err != nil {
			WriteError(w, err)
			return
		}
		if target.Role == model.RoleSuperadmin {
			WriteError(w, NewForbiddenError("Only a superadmin may remove superadmins"))
			return
		}
	}

	if err := h.users.Delete(r.Context(), id); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

func isSuperadmin(r *http.Request) bool {
	u := middleware.GetUser(r.Context())
	return u != nil && u.Role == model.RoleSuperadmin
}
