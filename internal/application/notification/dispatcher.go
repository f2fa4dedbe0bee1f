package notification

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

var (
	// ErrDispatcherNotRunning is returned when enqueueing on a stopped dispatcher
	ErrDispatcherNotRunning = errors.New("notification dispatcher is not running")

	// ErrQueueFull is returned when the message queue has no free slot
	ErrQueueFull = errors.New("notification queue is full")
)

// DispatcherConfig holds dispatcher settings
type DispatcherConfig struct {
	QueueSize       int
	Workers         int
	DeliveryTimeout time.Duration
}

// DispatcherStats is a snapshot of dispatcher counters
type DispatcherStats struct {
	Delivered int64 `json:"delivered"`
	Failed    int64 `json:"failed"`
	Dropped   int64 `json:"dropped"`
}

// Dispatcher delivers messages through a Notifier from a bounded queue
// served by a fixed worker pool. Enqueue never blocks.
type Dispatcher struct {
	config   DispatcherConfig
	notifier Notifier
	logger   *zap.Logger

	queue     chan Message
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool

	delivered atomic.Int64
	failed    atomic.Int64
	dropped   atomic.Int64
}

// NewDispatcher creates a dispatcher. Zero config values get defaults.
func NewDispatcher(config DispatcherConfig, notifier Notifier, logger *zap.Logger) *Dispatcher {
	if config.QueueSize <= 0 {
		config.QueueSize = 256
	}
	if config.Workers <= 0 {
		config.Workers = 1
	}
	if config.DeliveryTimeout <= 0 {
		config.DeliveryTimeout = 5 * time.Second
	}
	return &Dispatcher{
		config:   config,
		notifier: notifier,
		logger:   logger.Named("notification"),
		queue:    make(chan Message, config.QueueSize),
	}
}

// Start starts the worker pool
func (d *Dispatcher) Start(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.isRunning {
		return nil
	}
	d.isRunning = true

	ctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	d.cancel = cancel
	for i := 0; i < d.config.Workers; i++ {
		d.wg.Add(1)
		go d.worker(ctx, i)
	}

	d.logger.Info("Notification dispatcher started",
		zap.Int("workers", d.config.Workers),
		zap.Int("queue_size", d.config.QueueSize),
	)
	return nil
}

// Stop stops accepting messages, drains the queue and waits for the
// workers until ctx is done. Messages left when ctx expires are abandoned.
func (d *Dispatcher) Stop(ctx context.Context) error {
	d.mu.Lock()
	if !d.isRunning {
		d.mu.Unlock()
		return nil
	}
	d.isRunning = false
	close(d.queue)
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		d.cancel()
		d.logger.Info("Notification dispatcher stopped gracefully")
		return nil
	case <-ctx.Done():
		d.cancel()
		d.logger.Warn("Notification dispatcher stop timed out", zap.Int("abandoned", len(d.queue)))
		return ctx.Err()
	}
}

// Enqueue hands a message to the workers. A full queue drops the message.
func (d *Dispatcher) Enqueue(msg Message) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.isRunning {
		return ErrDispatcherNotRunning
	}

	select {
	case d.queue <- msg:
		return nil
	default:
		d.dropped.Add(1)
		return ErrQueueFull
	}
}

// Stats returns a snapshot of the dispatcher counters
func (d *Dispatcher) Stats() DispatcherStats {
	return DispatcherStats{
		Delivered: d.delivered.Load(),
		Failed:    d.failed.Load(),
		Dropped:   d.dropped.Load(),
	}
}

func (d *Dispatcher) worker(ctx context.Context, workerID int) {
	defer d.wg.Done()
	for msg := range d.queue {
		d.deliver(ctx, msg, workerID)
	}
}

func (d *Dispatcher) deliver(ctx context.Context, msg Message, workerID int) {
	deliveryCtx, cancel := context.WithTimeout(ctx, d.config.DeliveryTimeout)
	defer cancel()

	if err := d.notifier.Notify(deliveryCtx, msg); err != nil {
		d.failed.Add(1)
		d.logger.Error("Notification delivery failed",
			zap.Int("worker_id", workerID),
			zap.String("message_id", msg.ID.String()),
			zap.String("kind", msg.Kind),
			zap.String("company_id", msg.CompanyID.String()),
			zap.Error(err),
		)
		return
	}
	d.delivered.Add(1)
}
