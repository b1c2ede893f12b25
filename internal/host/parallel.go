// Package host provides the main-thread task primitive the leak scanner runs
// on: bodies execute on their own goroutine, and their completion callbacks
// are queued until the main loop drains them.
package host

import (
	"sync"
)

// Parallel runs background bodies and marshals their completion callbacks
// back onto whichever goroutine calls Drain (the main loop).
type Parallel struct {
	mu      sync.Mutex
	pending []func()
	wake    chan struct{}
	running sync.WaitGroup
}

// NewParallel creates an idle runner.
func NewParallel() *Parallel {
	return &Parallel{
		wake: make(chan struct{}, 1),
	}
}

// RunAsync starts body on a new goroutine. Once body returns, onComplete is
// queued for the next Drain call. onComplete may be nil.
func (p *Parallel) RunAsync(body func(), onComplete func()) {
	p.running.Add(1)
	go func() {
		defer p.running.Done()
		body()
		if onComplete != nil {
			p.enqueue(onComplete)
		}
	}()
}

func (p *Parallel) enqueue(fn func()) {
	p.mu.Lock()
	p.pending = append(p.pending, fn)
	p.mu.Unlock()

	select {
	case p.wake <- struct{}{}:
	default:
	}
}

// Drain runs every queued completion callback on the calling goroutine and
// returns how many ran. Callbacks queued while draining wait for the next call.
func (p *Parallel) Drain() int {
	p.mu.Lock()
	batch := p.pending
	p.pending = nil
	p.mu.Unlock()

	for _, fn := range batch {
		fn()
	}
	return len(batch)
}

// Pending returns the number of callbacks waiting for Drain.
func (p *Parallel) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.pending)
}

// Ready returns a channel that receives a value after a callback is queued.
// Headless loops can select on it instead of polling.
func (p *Parallel) Ready() <-chan struct{} {
	return p.wake
}

// Wait blocks until every started body has returned. Queued callbacks are
// not run.
func (p *Parallel) Wait() {
	p.running.Wait()
}
