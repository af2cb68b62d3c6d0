package relay

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"

	"github.com/edgard/robornet/internal/database"
	"github.com/edgard/robornet/internal/lead"
)

// LeadRunner relays one lead.
type LeadRunner interface {
	Run(ctx context.Context, l lead.Lead) (*database.RelayRun, error)
}

// DispatcherConfig tunes the background worker pool.
type DispatcherConfig struct {
	Workers      int
	QueueSize    int
	DrainTimeout time.Duration
}

// Dispatcher runs relay jobs in the background with bounded concurrency so
// that ending a voice session never waits for the relay.
type Dispatcher struct {
	runner LeadRunner
	clock  clockwork.Clock
	log    *slog.Logger
	cfg    DispatcherConfig

	jobs chan lead.Lead

	mu     sync.Mutex
	closed bool
}

// NewDispatcher creates a dispatcher. Call Run to start processing.
func NewDispatcher(runner LeadRunner, cfg DispatcherConfig, clock clockwork.Clock, log *slog.Logger) *Dispatcher {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 64
	}
	if cfg.DrainTimeout <= 0 {
		cfg.DrainTimeout = 30 * time.Second
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Dispatcher{
		runner: runner,
		clock:  clock,
		log:    log.With("component", "relay_dispatcher"),
		cfg:    cfg,
		jobs:   make(chan lead.Lead, cfg.QueueSize),
	}
}

// Submit queues a lead without blocking. It returns false when the queue is
// full or the dispatcher is shutting down; the lead is then dropped and
// logged.
func (d *Dispatcher) Submit(l lead.Lead) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		d.log.Warn("Relay dispatcher is shut down, dropping lead", "name", l.Name)
		return false
	}
	select {
	case d.jobs <- l:
		return true
	default:
		d.log.Warn("Relay queue is full, dropping lead", "name", l.Name, "queue_size", d.cfg.QueueSize)
		return false
	}
}

// Run processes queued leads until ctx is cancelled, then drains the queue.
// In-flight runs get DrainTimeout to finish before their context is
// cancelled. A job is taken off the queue only once a worker slot is free,
// so cancellation is seen even while every worker is busy.
func (d *Dispatcher) Run(ctx context.Context) error {
	jobCtx, cancelJobs := context.WithCancel(context.WithoutCancel(ctx))
	defer cancelJobs()

	g := new(errgroup.Group)
	slots := make(chan struct{}, d.cfg.Workers)

	d.log.Info("Relay dispatcher started", "workers", d.cfg.Workers)
	for {
		select {
		case slots <- struct{}{}:
		case <-ctx.Done():
			return d.shutdown(g, slots, jobCtx, cancelJobs)
		}

		select {
		case l := <-d.jobs:
			d.start(g, slots, jobCtx, l)
		case <-ctx.Done():
			<-slots
			return d.shutdown(g, slots, jobCtx, cancelJobs)
		}
	}
}

func (d *Dispatcher) shutdown(g *errgroup.Group, slots chan struct{}, jobCtx context.Context, cancelJobs context.CancelFunc) error {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()

	timer := d.clock.AfterFunc(d.cfg.DrainTimeout, cancelJobs)
	defer timer.Stop()

	pending := len(d.jobs)
	d.log.Info("Relay dispatcher draining", "pending", pending)
	for i := 0; i < pending; i++ {
		slots <- struct{}{}
		d.start(g, slots, jobCtx, <-d.jobs)
	}

	_ = g.Wait()
	d.log.Info("Relay dispatcher stopped")
	return nil
}

// start runs l on a slot already taken by the caller and frees it when done.
func (d *Dispatcher) start(g *errgroup.Group, slots chan struct{}, ctx context.Context, l lead.Lead) {
	g.Go(func() error {
		defer func() { <-slots }()
		// Failures are recorded by the runner and never stop the pool.
		if _, err := d.runner.Run(ctx, l); err != nil {
			d.log.Debug("Relay job ended with error", "error", err)
		}
		return nil
	})
}
