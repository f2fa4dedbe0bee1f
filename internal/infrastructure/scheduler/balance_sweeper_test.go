package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type countingRecomputer struct {
	calls atomic.Int32
	err   error
}

func (r *countingRecomputer) RecomputeAll(_ context.Context) (int, error) {
	r.calls.Add(1)
	return 3, r.err
}

func newLocker(t *testing.T) (*miniredis.Miniredis, *redislock.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, redislock.New(client)
}

func TestBalanceSweeper_SweepOnce(t *testing.T) {
	mr, locker := newLocker(t)
	recomputer := &countingRecomputer{}
	sweeper := NewBalanceSweeper(SweeperConfig{LockKey: "test:sweep"}, recomputer, locker, zap.NewNop())

	count, err := sweeper.SweepOnce(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.Equal(t, int32(1), recomputer.calls.Load())
	assert.False(t, mr.Exists("test:sweep"), "lock released after sweep")
}

func TestBalanceSweeper_SweepOnce_LockHeldElsewhere(t *testing.T) {
	_, locker := newLocker(t)
	recomputer := &countingRecomputer{}
	sweeper := NewBalanceSweeper(SweeperConfig{LockKey: "test:sweep", LockTTL: time.Minute}, recomputer, locker, zap.NewNop())

	held, err := locker.Obtain(context.Background(), "test:sweep", time.Minute, nil)
	require.NoError(t, err)
	defer held.Release(context.Background())

	_, err = sweeper.SweepOnce(context.Background())

	assert.ErrorIs(t, err, ErrSweepInProgress)
	assert.Equal(t, int32(0), recomputer.calls.Load())
}

func TestBalanceSweeper_SweepOnce_WithoutLocker(t *testing.T) {
	recomputer := &countingRecomputer{err: errors.New("db down")}
	sweeper := NewBalanceSweeper(SweeperConfig{}, recomputer, nil, zap.NewNop())

	_, err := sweeper.SweepOnce(context.Background())

	assert.EqualError(t, err, "db down")
	assert.Equal(t, int32(1), recomputer.calls.Load())
}

func TestBalanceSweeper_StartStop(t *testing.T) {
	recomputer := &countingRecomputer{}
	sweeper := NewBalanceSweeper(SweeperConfig{Interval: 10 * time.Millisecond}, recomputer, nil, zap.NewNop())

	require.NoError(t, sweeper.Start(context.Background()))
	require.NoError(t, sweeper.Start(context.Background()))
	require.Eventually(t, func() bool { return recomputer.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, sweeper.Stop(ctx))
	require.NoError(t, sweeper.Stop(ctx))

	calls := recomputer.calls.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, calls, recomputer.calls.Load())
}

type sweepRecord struct {
	balances int
	err      error
}

type recordingSweepRecorder struct {
	records []sweepRecord
}

func (r *recordingSweepRecorder) RecordSweep(_ context.Context, balances int, _ time.Duration, err error) {
	r.records = append(r.records, sweepRecord{balances: balances, err: err})
}

func TestBalanceSweeper_RecordsOutcome(t *testing.T) {
	recorder := &recordingSweepRecorder{}
	recomputer := &countingRecomputer{}
	sweeper := NewBalanceSweeper(SweeperConfig{}, recomputer, nil, zap.NewNop())
	sweeper.SetRecorder(recorder)

	_, err := sweeper.SweepOnce(context.Background())
	require.NoError(t, err)

	recomputer.err = errors.New("db down")
	_, err = sweeper.SweepOnce(context.Background())
	require.Error(t, err)

	require.Len(t, recorder.records, 2)
	assert.Equal(t, 3, recorder.records[0].balances)
	assert.NoError(t, recorder.records[0].err)
	assert.EqualError(t, recorder.records[1].err, "db down")
}
