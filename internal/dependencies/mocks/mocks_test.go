package mocks

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mcoot/sportsched/internal/dependencies/clock"
)

func TestMockIDsQueueThenSequence(t *testing.T) {
	m := NewMockIDs()
	m.QueueID("game-1")

	assert.Equal(t, "game-1", m.NewID())
	assert.Equal(t, "id-1", m.NewID())
	assert.Equal(t, "id-2", m.NewID())
	assert.Equal(t, "token-1", m.NewToken())
}

func TestMockClockAdvance(t *testing.T) {
	start := time.Date(2025, 10, 1, 9, 0, 0, 0, time.UTC)
	c := NewMockClock(start)
	c.Advance(36 * time.Hour)

	assert.Equal(t, start.Add(36*time.Hour), c.Now())
	assert.Equal(t, "2025-10-02", clock.Today(c))
}
