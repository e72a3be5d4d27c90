// Package apierr maps domain errors onto JSON HTTP error responses.
package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/sportsched/internal/model"
	"github.com/mcoot/sportsched/internal/services/auth"
)

// APIError represents an API error response
type APIError struct {
	Code    string             `json:"code"`
	Message string             `json:"message"`
	Fields  []model.FieldError `json:"fields,omitempty"`

	// Set for illegal transitions
	From model.AssignmentStatus `json:"from,omitempty"`
	To   model.AssignmentStatus `json:"to,omitempty"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest      = "INVALID_REQUEST"
	CodeValidationFailed    = "VALIDATION_FAILED"
	CodeNotFound            = "NOT_FOUND"
	CodeLocationNotFound    = "LOCATION_NOT_FOUND"
	CodeOfficialNotFound    = "OFFICIAL_NOT_FOUND"
	CodeGameNotFound        = "GAME_NOT_FOUND"
	CodeUserNotFound        = "USER_NOT_FOUND"
	CodeAssignmentNotFound  = "ASSIGNMENT_NOT_FOUND"
	CodeDuplicateAssignment = "DUPLICATE_ASSIGNMENT"
	CodeIllegalTransition   = "ILLEGAL_TRANSITION"
	CodeReferentialConflict = "REFERENTIAL_CONFLICT"
	CodeStaleWrite          = "STALE_WRITE"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeForbidden           = "FORBIDDEN"
	CodeInvalidCredentials  = "INVALID_CREDENTIALS"
	CodeMethodNotAllowed    = "METHOD_NOT_ALLOWED"
	CodeInternalError       = "INTERNAL_ERROR"
	CodeServiceUnavailable  = "SERVICE_UNAVAILABLE"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// Status returns the HTTP status err maps to
func Status(err error) int {
	return toHTTPError(err).status
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	// Check for specific error types
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	var verr *model.ValidationError
	if errors.As(err, &verr) {
		return &httpError{http.StatusBadRequest, APIError{Code: CodeValidationFailed, Message: "Validation failed", Fields: verr.Fields}}
	}

	var terr *model.TransitionError
	if errors.As(err, &terr) {
		return &httpError{http.StatusConflict, APIError{Code: CodeIllegalTransition, Message: terr.Error(), From: terr.From, To: terr.To}}
	}

	// Map model errors
	switch {
	case errors.Is(err, model.ErrLocationNotFound):
		return &httpError{http.StatusNotFound, APIError{Code: CodeLocationNotFound, Message: "Location not found"}}
	case errors.Is(err, model.ErrOfficialNotFound):
		return &httpError{http.StatusNotFound, APIError{Code: CodeOfficialNotFound, Message: "Official not found"}}
	case errors.Is(err, model.ErrGameNotFound):
		return &httpError{http.StatusNotFound, APIError{Code: CodeGameNotFound, Message: "Game not found"}}
	case errors.Is(err, model.ErrUserNotFound):
		return &httpError{http.StatusNotFound, APIError{Code: CodeUserNotFound, Message: "User not found"}}
	case errors.Is(err, model.ErrAssignmentNotFound):
		return &httpError{http.StatusNotFound, APIError{Code: CodeAssignmentNotFound, Message: "Assignment not found"}}
	case errors.Is(err, model.ErrNotFound):
		return &httpError{http.StatusNotFound, APIError{Code: CodeNotFound, Message: "Not found"}}
	case errors.Is(err, model.ErrDuplicateAssignment):
		return &httpError{http.StatusConflict, APIError{Code: CodeDuplicateAssignment, Message: model.ErrDuplicateAssignment.Error()}}
	case errors.Is(err, model.ErrIllegalTransition):
		return &httpError{http.StatusConflict, APIError{Code: CodeIllegalTransition, Message: err.Error()}}
	case errors.Is(err, model.ErrReferentialConflict):
		return &httpError{http.StatusConflict, APIError{Code: CodeReferentialConflict, Message: err.Error()}}
	case errors.Is(err, model.ErrStaleWrite):
		return &httpError{http.StatusConflict, APIError{Code: CodeStaleWrite, Message: "Record was modified concurrently; fetch it again and retry"}}
	case errors.Is(err, model.ErrValidation):
		return &httpError{http.StatusBadRequest, APIError{Code: CodeValidationFailed, Message: err.Error()}}

	// Map auth errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		return &httpError{http.StatusUnauthorized, APIError{Code: CodeInvalidCredentials, Message: "Invalid username or password"}}
	case errors.Is(err, auth.ErrInvalidSession):
		return &httpError{http.StatusUnauthorized, APIError{Code: CodeUnauthorized, Message: "Invalid or expired session"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{Code: CodeInternalError, Message: "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{Code: CodeInvalidRequest, Message: message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{Code: CodeUnauthorized, Message: "Authentication required"}}
}

// NewForbiddenError creates a forbidden error
func NewForbiddenError(message string) error {
	return &httpError{http.StatusForbidden, APIError{Code: CodeForbidden, Message: message}}
}

// NewNotFoundError creates a not found error for unknown routes
func NewNotFoundError() error {
	return &httpError{http.StatusNotFound, APIError{Code: CodeNotFound, Message: "Resource not found"}}
}

// NewMethodNotAllowedError creates a method not allowed error
func NewMethodNotAllowedError() error {
	return &httpError{http.StatusMethodNotAllowed, APIError{Code: CodeMethodNotAllowed, Message: "Method not allowed"}}
}

// NewUnavailableError creates a service unavailable error
func NewUnavailableError(message string) error {
	return &httpError{http.StatusServiceUnavailable, APIError{Code: CodeServiceUnavailable, Message: message}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{Code: CodeInternalError, Message: "Internal server error"}}
}
