package mocks

import (
	"fmt"
	"sync"

	"github.com/mcoot/sportsched/internal/dependencies/ids"
)

// MockIDs is a mock implementation of ids.Generator for testing.
// Queued values are returned first; afterwards IDs are sequential.
type MockIDs struct {
	mu sync.Mutex

	// IDResults is a queue of results to return from NewID
	IDResults []string
	idIndex   int
	idSeq     int

	// TokenResults is a queue of results to return from NewToken
	TokenResults []string
	tokenIndex   int
	tokenSeq     int
}

// Ensure MockIDs implements Generator
var _ ids.Generator = (*MockIDs)(nil)

// NewMockIDs creates a new MockIDs
func NewMockIDs() *MockIDs {
	return &MockIDs{}
}

// NewID returns the next queued ID, or "id-N" once the queue is drained
func (m *MockIDs) NewID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.idIndex < len(m.IDResults) {
		result := m.IDResults[m.idIndex]
		m.idIndex++
		return result
	}
	m.idSeq++
	return fmt.Sprintf("id-%d", m.idSeq)
}

// NewToken returns the next queued token, or "token-N" once the queue is drained
func (m *MockIDs) NewToken() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.tokenIndex < len(m.TokenResults) {
		result := m.TokenResults[m.tokenIndex]
		m.tokenIndex++
		return result
	}
	m.tokenSeq++
	return fmt.Sprintf("token-%d", m.tokenSeq)
}

// QueueID adds values to the NewID result queue
func (m *MockIDs) QueueID(values ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.IDResults = append(m.IDResults, values...)
}

// QueueToken adds values to the NewToken result queue
func (m *MockIDs) QueueToken(values ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.TokenResults = append(m.TokenResults, values...)
}
