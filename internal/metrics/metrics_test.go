package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/sportsched/internal/model"
)

func TestObserveTransition(t *testing.T) {
	m := New()

	m.ObserveTransition(model.AssignmentPending, model.AssignmentConfirmed)
	m.ObserveTransition(model.AssignmentPending, model.AssignmentConfirmed)
	m.ObserveTransition(model.AssignmentConfirmed, model.AssignmentCompleted)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.transitions.WithLabelValues("pending", "confirmed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.transitions.WithLabelValues("confirmed", "completed")))
}

func TestObserveRequest(t *testing.T) {
	m := New()

	m.ObserveRequest("/api/v1/games", http.MethodGet, 200, 15*time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("/api/v1/games", "GET", "200")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.duration))
}

func TestObserveJob(t *testing.T) {
	m := New()

	m.ObserveJob("session-cleanup", nil)
	m.ObserveJob("session-cleanup", errors.New("boom"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.jobRuns.WithLabelValues("session-cleanup", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.jobRuns.WithLabelValues("session-cleanup", "error")))
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New()
	m.RegisterGauge("active_sessions", "Sessions currently held.", func() float64 { return 3 })
	m.ObserveTransition(model.AssignmentPending, model.AssignmentDeclined)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, _ := io.ReadAll(rec.Body)
	assert.Contains(t, string(body), `sportsched_assignment_transitions_total{from="pending",to="declined"} 1`)
	assert.Contains(t, string(body), "sportsched_active_sessions 3")
	assert.Contains(t, string(body), "go_goroutines")
}
