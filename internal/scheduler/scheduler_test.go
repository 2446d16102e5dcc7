package scheduler

import (
	"context"
	"errors"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestScheduleRejectsBadExpression(t *testing.T) {
	s := NewScheduler(quietLogger(), time.Minute)
	assert.Error(t, s.Schedule("run", "not a cron", func(context.Context) error { return nil }))
}

func TestStartRequiresJobs(t *testing.T) {
	s := NewScheduler(quietLogger(), time.Minute)
	assert.Error(t, s.Start())
	assert.False(t, s.IsRunning())
}

func TestLifecycle(t *testing.T) {
	s := NewScheduler(quietLogger(), time.Minute)
	require.NoError(t, s.Schedule("run", "*/5 * * * *", func(context.Context) error { return nil }))
	assert.True(t, s.GetNextRun().IsZero())

	require.NoError(t, s.Start())
	defer s.Stop()

	assert.True(t, s.IsRunning())
	assert.Error(t, s.Start())
	assert.Error(t, s.Schedule("late", "* * * * *", func(context.Context) error { return nil }))
	assert.Len(t, s.Entries(), 1)
	assert.False(t, s.GetNextRun().IsZero())

	s.Stop()
	assert.False(t, s.IsRunning())
}

func TestExecuteAppliesTimeout(t *testing.T) {
	s := NewScheduler(quietLogger(), 10*time.Millisecond)

	var sawDeadline atomic.Bool
	s.execute("run", func(ctx context.Context) error {
		<-ctx.Done()
		sawDeadline.Store(errors.Is(ctx.Err(), context.DeadlineExceeded))
		return ctx.Err()
	})
	assert.True(t, sawDeadline.Load())
}

func TestFields(t *testing.T) {
	f := fields([]interface{}{"entry", 1, "next", "soon", "dangling"})
	assert.Equal(t, logrus.Fields{"entry": 1, "next": "soon"}, f)
}
