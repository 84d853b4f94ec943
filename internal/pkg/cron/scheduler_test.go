package cron

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestScheduler_RunsJobOnStartAndOnTicks(t *testing.T) {
	var runs atomic.Int32

	s := NewScheduler()
	s.AddJob("counter", 10*time.Millisecond, func(ctx context.Context) error {
		runs.Add(1)
		return nil
	})

	s.Start()
	time.Sleep(60 * time.Millisecond)
	s.Stop()

	// One immediate run plus at least one tick
	assert.GreaterOrEqual(t, runs.Load(), int32(2))
}

func TestScheduler_StopHaltsJobs(t *testing.T) {
	var runs atomic.Int32

	s := NewScheduler()
	s.AddJob("counter", 5*time.Millisecond, func(ctx context.Context) error {
		runs.Add(1)
		return nil
	})

	s.Start()
	time.Sleep(20 * time.Millisecond)
	s.Stop()

	after := runs.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, after, runs.Load())
}

func TestScheduler_FailingJobKeepsRunning(t *testing.T) {
	var runs atomic.Int32

	s := NewScheduler()
	s.AddJob("flaky", 10*time.Millisecond, func(ctx context.Context) error {
		runs.Add(1)
		return errors.New("boom")
	})

	s.Start()
	time.Sleep(45 * time.Millisecond)
	s.Stop()

	// Failures are logged, not fatal; later ticks still fire
	assert.GreaterOrEqual(t, runs.Load(), int32(2))
}
