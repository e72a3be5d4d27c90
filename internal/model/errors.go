package model

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds surfaced by the scheduling core
var (
	ErrNotFound            = errors.New("not found")
	ErrValidation          = errors.New("validation failed")
	ErrDuplicateAssignment = errors.New("official already holds an active assignment at this position for the game")
	ErrIllegalTransition   = errors.New("illegal assignment status transition")
	ErrReferentialConflict = errors.New("referential conflict")
	ErrStaleWrite          = errors.New("record was modified concurrently")

	// Entity lookups
	ErrLocationNotFound   = fmt.Errorf("location %w", ErrNotFound)
	ErrOfficialNotFound   = fmt.Errorf("official %w", ErrNotFound)
	ErrGameNotFound       = fmt.Errorf("game %w", ErrNotFound)
	ErrUserNotFound       = fmt.Errorf("user %w", ErrNotFound)
	ErrAssignmentNotFound = fmt.Errorf("assignment %w", ErrNotFound)
)

// Field error codes
const (
	CodeRequired         = "required"
	CodeInvalidFormat    = "invalid_format"
	CodeOutOfRange       = "out_of_range"
	CodeInvalidEnumValue = "invalid_enum_value"
	CodeNotUnique        = "not_unique"
	CodeInvalid          = "invalid"
)

// FieldError describes a single failed field constraint
type FieldError struct {
	Field  string `json:"field"`
	Code   string `json:"code"`
	Reason string `json:"reason"`
}

// FieldErrors collects every failed constraint for one input
type FieldErrors []FieldError

// Add appends a field failure
func (f *FieldErrors) Add(field, code, reason string) {
	*f = append(*f, FieldError{Field: field, Code: code, Reason: reason})
}

// Err returns a *ValidationError, or nil when nothing failed
func (f FieldErrors) Err() error {
	if len(f) == 0 {
		return nil
	}
	return &ValidationError{Fields: f}
}

// ValidationError reports one or more violated field constraints
type ValidationError struct {
	Fields []FieldError
}

// NewValidationError builds a ValidationError for a single field
func NewValidationError(field, code, reason string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Code: code, Reason: reason}}}
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Reason))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// TransitionError reports an assignment status change that the lifecycle forbids
type TransitionError struct {
	From AssignmentStatus
	To   AssignmentStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("illegal assignment status transition from %q to %q", e.From, e.To)
}

func (e *TransitionError) Unwrap() error {
	return ErrIllegalTransition
}

// NewConflictError wraps ErrReferentialConflict with a reason
func NewConflictError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrReferentialConflict, fmt.Sprintf(format, args...))
}
