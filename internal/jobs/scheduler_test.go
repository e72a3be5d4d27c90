package jobs

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/sportsched/internal/testutil"
)

type recordingObserver struct {
	mu   sync.Mutex
	runs map[string][]error
}

func (o *recordingObserver) ObserveJob(name string, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.runs == nil {
		o.runs = make(map[string][]error)
	}
	o.runs[name] = append(o.runs[name], err)
}

func (o *recordingObserver) count(name string) int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.runs[name])
}

type fakeCleaner struct {
	calls atomic.Int32
}

func (f *fakeCleaner) CleanExpiredSessions() int {
	f.calls.Add(1)
	return 2
}

func TestSchedulerRunsJobs(t *testing.T) {
	observer := &recordingObserver{}
	sched, err := NewScheduler(testutil.NopLogger(), observer)
	require.NoError(t, err)

	var runs atomic.Int32
	require.NoError(t, sched.Every("tick", 20*time.Millisecond, func(context.Context) error {
		runs.Add(1)
		return nil
	}))
	require.NoError(t, sched.Every("fail", 20*time.Millisecond, func(context.Context) error {
		return errors.New("boom")
	}))

	sched.Start()
	assert.Eventually(t, func() bool {
		return runs.Load() >= 2 && observer.count("fail") >= 1
	}, 2*time.Second, 10*time.Millisecond)
	require.NoError(t, sched.Shutdown())

	observer.mu.Lock()
	defer observer.mu.Unlock()
	assert.NoError(t, observer.runs["tick"][0])
	assert.Error(t, observer.runs["fail"][0])
}

func TestCleanSessionsTask(t *testing.T) {
	cleaner := &fakeCleaner{}

	err := CleanSessions(cleaner, testutil.NopLogger())(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, int32(1), cleaner.calls.Load())
}
