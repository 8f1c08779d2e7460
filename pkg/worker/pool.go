/*
Package worker provides the bounded worker pool that drives a traversal:
a fixed number of goroutines draining one shared Queue, where each task may
push follow-up tasks, and a barrier that returns once every task (including
everything it spawned) has finished.

Basic usage:

	pool, err := worker.NewPool[string](worker.Config{Workers: 4})
	if err != nil {
		return err
	}

	err = pool.Run(ctx, func(ctx context.Context, dir string, q *worker.Queue[string]) error {
		for _, sub := range list(dir) {
			if err := q.Push(sub); err != nil {
				return err
			}
		}
		return nil
	}, "/root")
*/
package worker

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
)

// MaxWorkers caps the pool size.
const MaxWorkers = 1024

// Config holds the configuration for the worker pool.
type Config struct {
	// Workers is the number of concurrent workers.
	Workers int
}

// Handler processes one task. It may push follow-up tasks onto q; the task is
// counted as finished only after the handler returns. A non-nil error aborts
// the whole run.
type Handler[T any] func(ctx context.Context, task T, q *Queue[T]) error

// Pool runs a Handler over a self-feeding Queue with a fixed number of workers.
// A Pool runs once.
type Pool[T any] struct {
	config Config
	queue  *Queue[T]

	mu        sync.RWMutex
	started   bool
	finished  bool
	startTime time.Time
	endTime   time.Time

	activeWorkers  atomic.Int32
	completedTasks atomic.Int64
	failedTasks    atomic.Int64
}

// NewPool creates a pool with the given configuration.
func NewPool[T any](config Config) (*Pool[T], error) {
	if err := validateConfig(config); err != nil {
		return nil, err
	}

	return &Pool[T]{
		config: config,
		queue:  NewQueue[T](),
	}, nil
}

func validateConfig(config Config) error {
	if config.Workers <= 0 {
		return fmt.Errorf("number of workers must be positive")
	}
	if config.Workers > MaxWorkers {
		return fmt.Errorf("number of workers cannot exceed %d", MaxWorkers)
	}
	return nil
}

// Run seeds the queue, starts the workers and blocks until every task has
// finished, a handler fails, or ctx is cancelled. Seeds are pushed before any
// worker starts, so the in-flight count never reads zero prematurely.
func (p *Pool[T]) Run(ctx context.Context, handler Handler[T], seeds ...T) error {
	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		return fmt.Errorf("pool already started")
	}
	p.started = true
	p.startTime = time.Now()
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		p.finished = true
		p.endTime = time.Now()
		p.mu.Unlock()
	}()

	if len(seeds) == 0 {
		p.queue.Close()
		return nil
	}
	for _, seed := range seeds {
		if err := p.queue.Push(seed); err != nil {
			return fmt.Errorf("failed to seed queue: %w", err)
		}
	}

	g, gctx := errgroup.WithContext(ctx)

	// Cancellation, from the caller or from a failing handler, unblocks
	// every worker waiting in Pop.
	stop := context.AfterFunc(gctx, p.queue.Close)
	defer stop()

	for i := 0; i < p.config.Workers; i++ {
		g.Go(func() error {
			return p.worker(gctx, handler)
		})
	}

	err := g.Wait()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("traversal cancelled: %w", ctxErr)
	}
	return err
}

func (p *Pool[T]) worker(ctx context.Context, handler Handler[T]) error {
	for {
		task, ok := p.queue.Pop()
		if !ok {
			return nil
		}

		p.activeWorkers.Add(1)
		err := handler(ctx, task, p.queue)
		p.activeWorkers.Add(-1)
		p.queue.Done()

		if err != nil {
			p.failedTasks.Add(1)
			return err
		}
		p.completedTasks.Add(1)
	}
}

// Queue exposes the pool's queue, mainly for inspection.
func (p *Pool[T]) Queue() *Queue[T] {
	return p.queue
}

// Stats returns a snapshot of the pool's counters.
func (p *Pool[T]) Stats() Stats {
	p.mu.RLock()
	defer p.mu.RUnlock()

	var uptime time.Duration
	switch {
	case p.finished:
		uptime = p.endTime.Sub(p.startTime)
	case p.started:
		uptime = time.Since(p.startTime)
	}

	return Stats{
		Workers:        p.config.Workers,
		ActiveWorkers:  int(p.activeWorkers.Load()),
		QueuedTasks:    p.queue.Len(),
		InFlightTasks:  p.queue.InFlight(),
		CompletedTasks: p.completedTasks.Load(),
		FailedTasks:    p.failedTasks.Load(),
		Status:         p.statusLocked(),
		Uptime:         uptime,
	}
}

// Status returns the current state of the pool.
func (p *Pool[T]) Status() Status {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.statusLocked()
}

func (p *Pool[T]) statusLocked() Status {
	switch {
	case !p.started, p.finished:
		return StatusStopped
	case p.activeWorkers.Load() > 0 || p.queue.Len() > 0:
		return StatusProcessing
	default:
		return StatusIdle
	}
}
