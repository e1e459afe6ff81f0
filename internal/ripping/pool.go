package ripping

import (
	"context"
	"sync"
)

// Pool runs one Worker per configured drive concurrently.
type Pool struct {
	workers []*Worker
	wg      sync.WaitGroup
}

// NewPool constructs a rip worker pool.
func NewPool(workers []*Worker) *Pool {
	return &Pool{workers: workers}
}

// Start launches every drive's worker loop in its own goroutine.
func (p *Pool) Start(ctx context.Context) {
	p.wg.Add(len(p.workers))
	for _, w := range p.workers {
		w := w
		go func() {
			defer p.wg.Done()
			w.Run(ctx)
		}()
	}
}

// Wait blocks until every worker's Run has returned, which happens once ctx
// passed to Start is cancelled.
func (p *Pool) Wait() {
	p.wg.Wait()
}
