package handler

import (
	"net/http"

	"github.com/mcoot/sportsched/internal/api/apierr"
	"github.com/mcoot/sportsched/internal/query"
)

// Re-export from apierr for convenience
type APIError = apierr.APIError
type ErrorResponse = apierr.ErrorResponse

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	apierr.WriteError(w, err)
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return apierr.NewInvalidRequestError(message)
}

// NewForbiddenError creates a forbidden error
func NewForbiddenError(message string) error {
	return apierr.NewForbiddenError(message)
}

// NewUnavailableError creates a service unavailable error
func NewUnavailableError(message string) error {
	return apierr.NewUnavailableError(message)
}

// listParams reads the shared list filter and sort from the query string
func listParams(r *http.Request) (query.Filter, query.Sort, error) {
	return query.FromValues(r.URL.Query())
}
