package handler

import (
	"net/http"

	"github.com/mcoot/sportsched/internal/api/middleware"
	"github.com/mcoot/sportsched/internal/api/request"
	"github.com/mcoot/sportsched/internal/api/response"
	"github.com/mcoot/sportsched/internal/services/auth"
)

// AuthHandler handles login and session endpoints
type AuthHandler struct {
	authService *auth.Service
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *auth.Service) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if err := request.Decode(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	if req.Username == "" || req.Password == "" {
		WriteError(w, NewInvalidRequestError("username and password are required"))
		return
	}

	session, user, err := h.authService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.AuthResponseFromSession(session, user))
}

// Logout handles POST /api/v1/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.authService.InvalidateSession(middleware.GetToken(r.Context()))
	response.NoContent(w)
}

// Me handles GET /api/v1/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	response.JSON(w, http.StatusOK, response.UserFromModel(user))
}
