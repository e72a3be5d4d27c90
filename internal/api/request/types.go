// Package request decodes API request bodies and query parameters.
package request

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/mcoot/sportsched/internal/api/apierr"
	"github.com/mcoot/sportsched/internal/model"
)

// MaxBodyBytes caps a decoded request body
const MaxBodyBytes = 1 << 20

// LoginRequest is the request body for logging in
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TransitionRequest is the request body for changing an assignment's status.
// ExpectedStatus, when set, must match the stored status.
type TransitionRequest struct {
	Status         model.AssignmentStatus  `json:"status"`
	ExpectedStatus *model.AssignmentStatus `json:"expected_status,omitempty"`
}

// Decode reads a single JSON object into v. Unknown fields are rejected.
func Decode(r *http.Request, v any) error {
	body, err := io.ReadAll(http.MaxBytesReader(nil, r.Body, MaxBodyBytes))
	if err != nil {
		return apierr.NewInvalidRequestError("request body too large or unreadable")
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return apierr.NewInvalidRequestError("request body is required")
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return apierr.NewInvalidRequestError(describe(err))
	}
	if dec.More() {
		return apierr.NewInvalidRequestError("request body must hold a single JSON object")
	}
	return nil
}

func describe(err error) string {
	var syntax *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &syntax):
		return fmt.Sprintf("malformed JSON at offset %d", syntax.Offset)
	case errors.As(err, &typeErr):
		return fmt.Sprintf("field %q must be %s", typeErr.Field, typeErr.Type)
	case strings.HasPrefix(err.Error(), "json: unknown field "):
		return "unknown field " + strings.TrimPrefix(err.Error(), "json: unknown field ")
	default:
		return "invalid request body"
	}
}

// IntParam reads a non-negative integer query parameter, falling back to def
func IntParam(r *http.Request, name string, def int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, model.NewValidationError(name, model.CodeInvalidFormat, "must be an integer")
	}
	if n < 0 {
		return 0, model.NewValidationError(name, model.CodeOutOfRange, "must not be negative")
	}
	return n, nil
}

// BoolParam reads a boolean query parameter; absent means false
func BoolParam(r *http.Request, name string) (bool, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, model.NewValidationError(name, model.CodeInvalidFormat, "must be true or false")
	}
	return b, nil
}
