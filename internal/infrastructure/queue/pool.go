package queue

import (
	"context"
	"errors"
	"runtime"

	"github.com/rs/zerolog"
)

const channelBuffer = 64

// ErrPoolStopped is returned when a job is submitted after the pool's context
// has been cancelled.
var ErrPoolStopped = errors.New("worker pool stopped")

type job struct {
	fn   func()
	done chan struct{}
}

// Pool runs CPU-bound jobs (password hashing) on a fixed set of workers so
// that bursts of logins cannot occupy every scheduler thread at once.
type Pool struct {
	jobs    chan job
	workers int
	stopped chan struct{}
	log     zerolog.Logger
}

// NewPool creates a Pool with numWorkers workers.
// If numWorkers <= 0, runtime.NumCPU() is used.
func NewPool(numWorkers int, log zerolog.Logger) *Pool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	return &Pool{
		jobs:    make(chan job, channelBuffer),
		workers: numWorkers,
		stopped: make(chan struct{}),
		log:     log,
	}
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (p *Pool) Start(ctx context.Context) {
	for i := 0; i < p.workers; i++ {
		go p.runWorker(ctx, i)
	}
	go func() {
		<-ctx.Done()
		close(p.stopped)
	}()
	p.log.Debug().Int("workers", p.workers).Msg("hashing pool started")
}

// Do runs fn on a worker and waits for it to finish. If ctx is cancelled
// first, Do returns ctx.Err(); a job already picked up still runs to
// completion but its result is discarded by the caller.
func (p *Pool) Do(ctx context.Context, fn func()) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case <-p.stopped:
		return ErrPoolStopped
	default:
	}

	j := job{fn: fn, done: make(chan struct{})}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-p.stopped:
		return ErrPoolStopped
	case p.jobs <- j:
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-j.done:
		return nil
	case <-p.stopped:
		// a worker may still have finished it
		select {
		case <-j.done:
			return nil
		default:
			return ErrPoolStopped
		}
	}
}

func (p *Pool) runWorker(ctx context.Context, id int) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-p.jobs:
			p.run(id, j)
		}
	}
}

func (p *Pool) run(id int, j job) {
	defer close(j.done)
	defer func() {
		if r := recover(); r != nil {
			p.log.Error().Interface("panic", r).Int("worker_id", id).Msg("hashing job panicked")
		}
	}()
	j.fn()
}
