package app

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
)

var (
	ErrPoolStopped = errors.New("worker pool not running")
	ErrPoolBusy    = errors.New("worker pool queue full")
)

// Pool runs submitted tasks on a fixed set of worker goroutines with
// a bounded queue. Submission never blocks: when the queue is full
// the caller gets ErrPoolBusy and decides what to do.
type Pool struct {
	queue   chan func()
	workers int

	wg      sync.WaitGroup
	running atomic.Bool
}

func NewPool(workers, queueSize int) *Pool {
	if workers <= 0 {
		workers = 4
	}
	if queueSize <= 0 {
		queueSize = 64
	}
	return &Pool{
		queue:   make(chan func(), queueSize),
		workers: workers,
	}
}

// Start launches the workers. Starting a running pool is a no-op.
func (p *Pool) Start() {
	if p.running.Swap(true) {
		return
	}
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for task := range p.queue {
		task()
	}
}

// Stop closes the queue and waits for in-flight tasks, or until ctx
// expires.
func (p *Pool) Stop(ctx context.Context) error {
	if !p.running.Swap(false) {
		return ErrPoolStopped
	}
	close(p.queue)

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Submit enqueues task for execution.
func (p *Pool) Submit(task func()) error {
	if !p.running.Load() {
		return ErrPoolStopped
	}
	select {
	case p.queue <- task:
		return nil
	default:
		return ErrPoolBusy
	}
}
