// Package workerpool provides a bounded goroutine pool with backpressure.
//
// The queue workers run their jobs through a Pool so the number of jobs in
// flight never exceeds the configured worker count:
//
//	pool := workerpool.New("queue", 4)
//	defer pool.Shutdown()
//
//	if err := pool.SubmitCtx(ctx, func() { job.Handle(ctx) }); err != nil {
//	    // ctx cancelled or pool closed
//	}
package workerpool

import (
	"context"
	"errors"
	"runtime/debug"
	"sync"
	"sync/atomic"

	"github.com/nomfood/storefront/pkg/logger"
)

// ErrPoolFull is returned by Submit when every worker is busy and the task
// buffer is at capacity.
var ErrPoolFull = errors.New("workerpool: pool is full")

// ErrPoolClosed is returned after Shutdown has been called.
var ErrPoolClosed = errors.New("workerpool: pool is closed")

// Pool is a bounded goroutine pool.
type Pool struct {
	name   string
	tasks  chan func()
	wg     sync.WaitGroup
	mu     sync.RWMutex
	closed bool
	busy   atomic.Int32
}

// New starts size workers. The task buffer holds 2×size pending tasks.
func New(name string, size int) *Pool {
	if size <= 0 {
		size = 1
	}
	p := &Pool{name: name, tasks: make(chan func(), size*2)}
	for i := 0; i < size; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	return p
}

// Submit enqueues task without blocking.
func (p *Pool) Submit(task func()) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPoolClosed
	}
	select {
	case p.tasks <- task:
		return nil
	default:
		return ErrPoolFull
	}
}

// SubmitCtx blocks until task is accepted, ctx is done or the pool closes.
func (p *Pool) SubmitCtx(ctx context.Context, task func()) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPoolClosed
	}
	select {
	case p.tasks <- task:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Busy is the number of tasks currently executing.
func (p *Pool) Busy() int { return int(p.busy.Load()) }

// Shutdown stops accepting tasks, runs what is already buffered and waits
// for the workers to exit. Safe to call more than once.
func (p *Pool) Shutdown() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.tasks)
	p.mu.Unlock()
	p.wg.Wait()
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for task := range p.tasks {
		p.run(task)
	}
}

// run keeps a panicking task from taking its worker down with it.
func (p *Pool) run(task func()) {
	p.busy.Add(1)
	defer p.busy.Add(-1)
	defer func() {
		if rec := recover(); rec != nil {
			logger.Error("workerpool: task panicked", "pool", p.name, "panic", rec, "stack", string(debug.Stack()))
		}
	}()
	task()
}
