package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSweeper struct {
	calls atomic.Int32
	err   error
}

func (s *countingSweeper) SweepExpired(ctx context.Context) (int, error) {
	s.calls.Add(1)
	return 1, s.err
}

func TestExpirySweeper_RunsImmediatelyAndOnEveryTick(t *testing.T) {
	sw := &countingSweeper{}
	s := NewExpirySweeper(sw, 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	require.Eventually(t, func() bool { return sw.calls.Load() >= 3 }, time.Second, time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatalf("sweeper did not stop after cancel")
	}
}

func TestExpirySweeper_KeepsGoingAfterFailure(t *testing.T) {
	sw := &countingSweeper{err: errors.New("store unavailable")}
	s := NewExpirySweeper(sw, 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = s.Run(ctx) }()

	require.Eventually(t, func() bool { return sw.calls.Load() >= 2 }, time.Second, time.Millisecond)
}

func TestNewExpirySweeper_DefaultInterval(t *testing.T) {
	s := NewExpirySweeper(&countingSweeper{}, 0)
	assert.Equal(t, time.Minute, s.interval)
}
