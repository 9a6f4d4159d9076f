package cron

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRunOnce_ExecutesEveryJob(t *testing.T) {
	s := NewScheduler()
	var a, b atomic.Int32

	s.AddJob("a", time.Hour, func(context.Context) error { a.Add(1); return nil })
	s.AddJob("b", time.Hour, func(context.Context) error { b.Add(1); return errors.New("transient") })

	s.RunOnce(context.Background())
	s.RunOnce(context.Background())

	assert.EqualValues(t, 2, a.Load())
	assert.EqualValues(t, 2, b.Load(), "a failing job still runs on later passes")
}

func TestStartStop_RunsImmediatelyAndStopsCleanly(t *testing.T) {
	s := NewScheduler()
	var runs atomic.Int32

	s.AddJob("tick", time.Hour, func(context.Context) error { runs.Add(1); return nil })
	s.Start()

	assert.Eventually(t, func() bool { return runs.Load() >= 1 }, time.Second, 10*time.Millisecond)
	s.Stop()
}

func TestScheduleAt_PastInstantRunsImmediately(t *testing.T) {
	s := NewScheduler()
	var runs atomic.Int32

	s.ScheduleAt("late", time.Now().Add(-time.Minute), func(context.Context) error {
		runs.Add(1)
		return nil
	})

	assert.Eventually(t, func() bool { return runs.Load() == 1 }, time.Second, 10*time.Millisecond)
	s.Stop()
}
