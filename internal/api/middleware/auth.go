package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/mcoot/sportsched/internal/api/apierr"
	"github.com/mcoot/sportsched/internal/model"
	"github.com/mcoot/sportsched/internal/services/activity"
	"github.com/mcoot/sportsched/internal/services/auth"
)

type contextKey string

const (
	userContextKey  contextKey = "user"
	tokenContextKey contextKey = "token"
)

// Auth creates authentication middleware. The authenticated user becomes
// the actor recorded on every activity entry the request produces.
func Auth(authService *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" {
				apierr.WriteError(w, apierr.NewUnauthorizedError())
				return
			}

			user, err := authService.Authenticate(r.Context(), token)
			if err != nil {
				apierr.WriteError(w, err)
				return
			}

			// Add user and token to context
			ctx := r.Context()
			ctx = context.WithValue(ctx, userContextKey, user)
			ctx = context.WithValue(ctx, tokenContextKey, token)
			ctx = activity.WithActor(ctx, user.ID)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole rejects users whose role is not one of roles
func RequireRole(roles ...model.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := GetUser(r.Context())
			if user == nil {
				apierr.WriteError(w, apierr.NewUnauthorizedError())
				return
			}
			for _, role := range roles {
				if user.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			apierr.WriteError(w, apierr.NewForbiddenError("Your role may not perform this action"))
		})
	}
}

// RequireManager allows admins and superadmins
func RequireManager() func(http.Handler) http.Handler {
	return RequireRole(model.RoleAdmin, model.RoleSuperadmin)
}

// extractToken extracts the session token from the request
func extractToken(r *http.Request) string {
	// Check Authorization header first
	authHeader := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(authHeader, "Bearer "); ok {
		return strings.TrimSpace(token)
	}

	// Fall back to cookie
	cookie, err := r.Cookie("session")
	if err == nil {
		return cookie.Value
	}

	return ""
}

// GetUser returns the authenticated user from the request context
func GetUser(ctx context.Context) *model.User {
	user, _ := ctx.Value(userContextKey).(*model.User)
	return user
}

// GetToken returns the session token from the request context
func GetToken(ctx context.Context) string {
	token, _ := ctx.Value(tokenContextKey).(string)
	return token
}

// MustGetUser returns the authenticated user or panics
func MustGetUser(ctx context.Context) *model.User {
	user := GetUser(ctx)
	if user == nil {
		panic("no user in context - auth middleware not applied?")
	}
	return user
}
