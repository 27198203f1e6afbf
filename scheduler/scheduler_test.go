package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type countingRequeuer struct {
	calls atomic.Int32
	err   error
}

func (r *countingRequeuer) RequeuePending(ctx context.Context, staleAfter time.Duration) (int, error) {
	r.calls.Add(1)
	if staleAfter != StaleAfter {
		return 0, errors.New("unexpected stale window")
	}
	return 2, r.err
}

func TestSweepCallsRequeuer(t *testing.T) {
	r := &countingRequeuer{}
	Sweep(context.Background(), r, zap.NewNop())
	assert.EqualValues(t, 1, r.calls.Load())

	r.err = errors.New("db down")
	Sweep(context.Background(), r, zap.NewNop())
	assert.EqualValues(t, 2, r.calls.Load())
}

func TestStartSchedulerRejectsBadSpec(t *testing.T) {
	_, err := StartScheduler("not a cron line", &countingRequeuer{}, zap.NewNop())
	assert.Error(t, err)
}

func TestStartSchedulerRunsSweep(t *testing.T) {
	r := &countingRequeuer{}
	c, err := StartScheduler("* * * * * *", r, zap.NewNop())
	require.NoError(t, err)
	defer c.Stop()

	assert.Eventually(t, func() bool { return r.calls.Load() > 0 }, 3*time.Second, 50*time.Millisecond)
}
