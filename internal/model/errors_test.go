package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntityNotFoundErrorsWrapNotFound(t *testing.T) {
	for _, err := range []error{
		ErrLocationNotFound,
		ErrOfficialNotFound,
		ErrGameNotFound,
		ErrUserNotFound,
		ErrAssignmentNotFound,
	} {
		assert.ErrorIs(t, err, ErrNotFound)
	}
	assert.NotErrorIs(t, ErrGameNotFound, ErrOfficialNotFound)
}

func TestFieldErrorsErr(t *testing.T) {
	var fe FieldErrors
	assert.NoError(t, fe.Err())

	fe.Add("name", CodeRequired, "is required")
	fe.Add("rating", CodeOutOfRange, "must be at most 5")

	err := fe.Err()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)

	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Len(t, ve.Fields, 2)
	assert.Contains(t, err.Error(), "name: is required")
	assert.Contains(t, err.Error(), "rating: must be at most 5")
}

func TestTransitionErrorCarriesStates(t *testing.T) {
	err := error(&TransitionError{From: AssignmentConfirmed, To: AssignmentPending})
	assert.ErrorIs(t, err, ErrIllegalTransition)

	var te *TransitionError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, AssignmentConfirmed, te.From)
	assert.Equal(t, AssignmentPending, te.To)
}

func TestPatchApplyTrimsAndSkipsNil(t *testing.T) {
	g := Game{HomeTeam: "Eagles", AwayTeam: "Hawks", OfficialsNeeded: 1}
	home := "  Falcons "
	n := 3
	GamePatch{HomeTeam: &home, OfficialsNeeded: &n}.Apply(&g)

	assert.Equal(t, "Falcons", g.HomeTeam)
	assert.Equal(t, "Hawks", g.AwayTeam)
	assert.Equal(t, 3, g.OfficialsNeeded)
}

func TestUserPatchNormalizesUsername(t *testing.T) {
	var u User
	name := "  JOSE_1 "
	UserPatch{Username: &name}.Apply(&u)
	assert.Equal(t, "jose_1", u.Username)
}
