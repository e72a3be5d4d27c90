package request

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/sportsched/internal/api/apierr"
	"github.com/mcoot/sportsched/internal/model"
)

func newRequest(body string) *http.Request {
	return httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
}

func TestDecode(t *testing.T) {
	var patch model.GamePatch
	require.NoError(t, Decode(newRequest(`{"sport":"Soccer","officials_needed":2}`), &patch))
	require.NotNil(t, patch.Sport)
	assert.Equal(t, "Soccer", *patch.Sport)
	assert.Equal(t, 2, *patch.OfficialsNeeded)
	assert.Nil(t, patch.Date)
}

func TestDecodeRejects(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty", ""},
		{"unknown field", `{"sport":"Soccer","referee":"bob"}`},
		{"malformed", `{"sport":`},
		{"wrong type", `{"officials_needed":"two"}`},
		{"trailing object", `{"sport":"Soccer"}{"sport":"Hockey"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var patch model.GamePatch
			err := Decode(newRequest(tt.body), &patch)
			require.Error(t, err)
			assert.Equal(t, http.StatusBadRequest, apierr.Status(err))
		})
	}
}

func TestIntParam(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/?n=5&bad=x&neg=-1", nil)

	n, err := IntParam(r, "n", 10)
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	n, err = IntParam(r, "missing", 10)
	require.NoError(t, err)
	assert.Equal(t, 10, n)

	_, err = IntParam(r, "bad", 10)
	assert.True(t, errors.Is(err, model.ErrValidation))

	_, err = IntParam(r, "neg", 10)
	assert.True(t, errors.Is(err, model.ErrValidation))
}

func TestBoolParam(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/?archive=true&bad=maybe", nil)

	b, err := BoolParam(r, "archive")
	require.NoError(t, err)
	assert.True(t, b)

	b, err = BoolParam(r, "missing")
	require.NoError(t, err)
	assert.False(t, b)

	_, err = BoolParam(r, "bad")
	assert.Error(t, err)
}
