// Package workpool provides a bounded background executor for detached writes.
package workpool

import (
	"log/slog"
	"sync"
)

// Pool runs submitted tasks on a fixed set of workers. Callers never observe
// task completion or failure; a saturated queue drops new tasks instead of
// blocking the submitter.
type Pool struct {
	tasks   chan func()
	workers sync.WaitGroup

	mu      sync.Mutex
	done    *sync.Cond
	pending int
	closed  bool
}

// New creates a pool with the given worker count and queue depth.
func New(workers, depth int) *Pool {
	if workers <= 0 {
		workers = 2
	}
	if depth <= 0 {
		depth = 64
	}
	p := &Pool{
		tasks: make(chan func(), depth),
	}
	p.done = sync.NewCond(&p.mu)
	for i := 0; i < workers; i++ {
		p.workers.Add(1)
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	defer p.workers.Done()
	for task := range p.tasks {
		task()
		p.mu.Lock()
		p.pending--
		if p.pending == 0 {
			p.done.Broadcast()
		}
		p.mu.Unlock()
	}
}

// Submit queues a task for background execution. It never blocks: if the pool
// is closed or the queue is full the task is dropped with a warning.
func (p *Pool) Submit(task func()) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		slog.Warn("workpool: pool closed, dropping task")
		return
	}
	select {
	case p.tasks <- task:
		p.pending++
		p.mu.Unlock()
	default:
		p.mu.Unlock()
		slog.Warn("workpool: queue full, dropping task")
	}
}

// Flush blocks until every queued task has finished. Safe to call while
// other goroutines submit; it returns once the tasks seen at some point
// have all completed. Intended for shutdown and tests; normal callers stay
// fire-and-forget.
func (p *Pool) Flush() {
	p.mu.Lock()
	for p.pending > 0 {
		p.done.Wait()
	}
	p.mu.Unlock()
}

// Close drains queued tasks and stops the workers. Submit after Close drops.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	for p.pending > 0 {
		p.done.Wait()
	}
	p.mu.Unlock()

	close(p.tasks)
	p.workers.Wait()
}
