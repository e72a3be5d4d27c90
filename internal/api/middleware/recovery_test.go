package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/sportsched/internal/api/apierr"
	"github.com/mcoot/sportsched/internal/testutil"
)

func TestRecoveryWritesInternalError(t *testing.T) {
	logger, logs := testutil.CaptureLogger()
	h := Recovery(logger)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/games", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body struct {
		Error apierr.APIError `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, apierr.CodeInternalError, body.Error.Code)
	assert.Contains(t, logs.Messages(), "panic recovered")
}

func TestRecoveryLeavesStartedResponse(t *testing.T) {
	h := Recovery(testutil.NopLogger())(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte("partial"))
		panic("late failure")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, "partial", rec.Body.String())
}
