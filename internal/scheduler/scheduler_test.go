package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sumire/jobboard/internal/service"
)

type countingSweeper struct {
	calls atomic.Int32
	err   error
}

func (c *countingSweeper) Sweep(context.Context) (service.SweepResult, error) {
	c.calls.Add(1)
	return service.SweepResult{Checked: 1}, c.err
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestScheduler_StartSweepsImmediately(t *testing.T) {
	sweeper := &countingSweeper{}
	s := New(sweeper, "@every 1h", quietLogger())

	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	assert.Eventually(t, func() bool { return sweeper.calls.Load() == 1 }, time.Second, 5*time.Millisecond)
}

func TestScheduler_SweepErrorsAreNotFatal(t *testing.T) {
	sweeper := &countingSweeper{err: errors.New("db down")}
	s := New(sweeper, "@every 1h", quietLogger())

	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	assert.Eventually(t, func() bool { return sweeper.calls.Load() == 1 }, time.Second, 5*time.Millisecond)
}

func TestScheduler_InvalidSpec(t *testing.T) {
	s := New(&countingSweeper{}, "every now and then", quietLogger())

	err := s.Start(context.Background())

	assert.Error(t, err)
}

func TestScheduler_RunStopsWithContext(t *testing.T) {
	sweeper := &countingSweeper{}
	s := New(sweeper, "@every 1h", quietLogger())
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	assert.Eventually(t, func() bool { return sweeper.calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
