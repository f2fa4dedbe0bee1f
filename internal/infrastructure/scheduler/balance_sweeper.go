package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/bsm/redislock"
	"go.uber.org/zap"
)

// BalanceRecomputer rebuilds every customer balance of every active company
type BalanceRecomputer interface {
	RecomputeAll(ctx context.Context) (int, error)
}

// SweepRecorder observes finished sweeps
type SweepRecorder interface {
	RecordSweep(ctx context.Context, balances int, elapsed time.Duration, err error)
}

// SweeperConfig holds balance sweeper settings
type SweeperConfig struct {
	Interval time.Duration
	LockKey  string
	LockTTL  time.Duration
}

// BalanceSweeper periodically recomputes all balances to repair drift left
// by lost events. With a locker, only one instance sweeps at a time.
type BalanceSweeper struct {
	config     SweeperConfig
	recomputer BalanceRecomputer
	locker     *redislock.Client
	logger     *zap.Logger
	recorder   SweepRecorder

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewBalanceSweeper creates a sweeper. locker may be nil for single-instance
// deployments.
func NewBalanceSweeper(config SweeperConfig, recomputer BalanceRecomputer, locker *redislock.Client, logger *zap.Logger) *BalanceSweeper {
	if config.Interval <= 0 {
		config.Interval = time.Hour
	}
	if config.LockTTL <= 0 {
		config.LockTTL = 10 * time.Minute
	}
	if config.LockKey == "" {
		config.LockKey = "stockly:balance-sweep"
	}
	return &BalanceSweeper{
		config:     config,
		recomputer: recomputer,
		locker:     locker,
		logger:     logger.Named("sweeper"),
	}
}

// SetRecorder sets the recorder notified after each sweep
func (s *BalanceSweeper) SetRecorder(recorder SweepRecorder) {
	s.recorder = recorder
}

// Start starts the sweep loop. The first sweep runs after one interval.
func (s *BalanceSweeper) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning {
		return nil
	}
	s.isRunning = true

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.runLoop(ctx)

	s.logger.Info("Balance sweeper started",
		zap.Duration("interval", s.config.Interval),
		zap.Bool("distributed_lock", s.locker != nil),
	)
	return nil
}

// Stop stops the loop and waits for a running sweep until ctx is done
func (s *BalanceSweeper) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	s.cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Balance sweeper stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// SweepOnce runs a single sweep. It returns ErrSweepInProgress when another
// instance holds the lock.
func (s *BalanceSweeper) SweepOnce(ctx context.Context) (int, error) {
	if s.locker != nil {
		lock, err := s.locker.Obtain(ctx, s.config.LockKey, s.config.LockTTL, nil)
		if errors.Is(err, redislock.ErrNotObtained) {
			return 0, ErrSweepInProgress
		}
		if err != nil {
			return 0, err
		}
		defer func() {
			if err := lock.Release(context.WithoutCancel(ctx)); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
				s.logger.Warn("Failed to release sweep lock", zap.Error(err))
			}
		}()
	}

	started := time.Now()
	count, err := s.recomputer.RecomputeAll(ctx)
	elapsed := time.Since(started)
	if s.recorder != nil {
		s.recorder.RecordSweep(ctx, count, elapsed, err)
	}
	if err != nil {
		return count, err
	}
	s.logger.Info("Balance sweep completed",
		zap.Int("balances", count),
		zap.Duration("elapsed", elapsed),
	)
	return count, nil
}

func (s *BalanceSweeper) runLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.SweepOnce(ctx); err != nil {
				if errors.Is(err, ErrSweepInProgress) {
					s.logger.Debug("Skipping sweep, another instance holds the lock")
					continue
				}
				s.logger.Error("Balance sweep failed", zap.Error(err))
			}
		}
	}
}
