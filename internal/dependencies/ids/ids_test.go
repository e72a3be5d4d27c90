package ids

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIDIsUUID(t *testing.T) {
	g := New()
	id := g.NewID()
	_, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.NotEqual(t, id, g.NewID())
}

func TestNewTokenIsPrefixedAndUnique(t *testing.T) {
	g := New()
	a, b := g.NewToken(), g.NewToken()
	assert.True(t, strings.HasPrefix(a, "sess_"))
	assert.NotEqual(t, a, b)
}
