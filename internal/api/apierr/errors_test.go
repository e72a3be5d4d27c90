package apierr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/sportsched/internal/model"
	"github.com/mcoot/sportsched/internal/services/auth"
)

func TestStatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", model.NewValidationError("email", model.CodeInvalidFormat, "bad"), http.StatusBadRequest, CodeValidationFailed},
		{"game not found", fmt.Errorf("load: %w", model.ErrGameNotFound), http.StatusNotFound, CodeGameNotFound},
		{"duplicate", fmt.Errorf("create: %w", model.ErrDuplicateAssignment), http.StatusConflict, CodeDuplicateAssignment},
		{"transition", &model.TransitionError{From: model.AssignmentCompleted, To: model.AssignmentPending}, http.StatusConflict, CodeIllegalTransition},
		{"conflict", model.NewConflictError("game has %d assignments", 2), http.StatusConflict, CodeReferentialConflict},
		{"stale", model.ErrStaleWrite, http.StatusConflict, CodeStaleWrite},
		{"credentials", auth.ErrInvalidCredentials, http.StatusUnauthorized, CodeInvalidCredentials},
		{"session", auth.ErrInvalidSession, http.StatusUnauthorized, CodeUnauthorized},
		{"forbidden", NewForbiddenError("nope"), http.StatusForbidden, CodeForbidden},
		{"unknown", errors.New("disk on fire"), http.StatusInternalServerError, CodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			he := toHTTPError(tt.err)
			assert.Equal(t, tt.status, he.status)
			assert.Equal(t, tt.code, he.apiError.Code)
			assert.Equal(t, tt.status, Status(tt.err))
		})
	}
}

func TestWriteErrorIncludesFieldDetails(t *testing.T) {
	errs := model.FieldErrors{}
	errs.Add("name", model.CodeRequired, "is required")
	errs.Add("rating", model.CodeOutOfRange, "must be at most 5")

	rec := httptest.NewRecorder()
	WriteError(rec, errs.Err())

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, CodeValidationFailed, body.Error.Code)
	require.Len(t, body.Error.Fields, 2)
	assert.Equal(t, "rating", body.Error.Fields[1].Field)
}

func TestWriteErrorIncludesTransitionStates(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, &model.TransitionError{From: model.AssignmentConfirmed, To: model.AssignmentPending})

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, model.AssignmentConfirmed, body.Error.From)
	assert.Equal(t, model.AssignmentPending, body.Error.To)
}
