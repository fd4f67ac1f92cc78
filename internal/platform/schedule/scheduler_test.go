package schedule_test

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cashfolio/cashfolio/internal/platform/schedule"
	"github.com/cashfolio/cashfolio/pkg/logger"
)

type countingJob struct {
	name string
	runs int
	err  error
}

func (j *countingJob) Run() error {
	j.runs++
	return j.err
}

func (j *countingJob) Name() string { return j.name }

func newTestScheduler() *schedule.Scheduler {
	return schedule.New(logger.New("test", io.Discard))
}

func TestScheduler_AddJob(t *testing.T) {
	t.Run("accepts a valid schedule", func(t *testing.T) {
		s := newTestScheduler()
		err := s.AddJob("@hourly", &countingJob{name: "sweep"})
		assert.NoError(t, err)
	})

	t.Run("rejects a malformed schedule", func(t *testing.T) {
		s := newTestScheduler()
		err := s.AddJob("not a schedule", &countingJob{name: "sweep"})
		assert.Error(t, err)
	})
}

func TestScheduler_RunNow(t *testing.T) {
	t.Run("runs the job immediately", func(t *testing.T) {
		s := newTestScheduler()
		job := &countingJob{name: "sweep"}

		require.NoError(t, s.RunNow(job))
		assert.Equal(t, 1, job.runs)
	})

	t.Run("propagates the job error", func(t *testing.T) {
		s := newTestScheduler()
		job := &countingJob{name: "sweep", err: errors.New("boom")}

		assert.Error(t, s.RunNow(job))
	})
}

func TestScheduler_StartStop(t *testing.T) {
	s := newTestScheduler()
	require.NoError(t, s.AddJob("@every 1h", &countingJob{name: "sweep"}))

	s.Start()
	s.Stop()
}
