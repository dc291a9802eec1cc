// Package parallel runs per-file jobs on a fixed number of goroutines.
package parallel

import (
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
)

type Pool struct {
	wg     sync.WaitGroup
	work   chan func()
	cancel func()

	mu   sync.Mutex
	errs []error

	done, failed atomic.Uint64
}

// Start returns a pool with numWorkers goroutines. numWorkers < 1 uses
// GOMAXPROCS; with a single worker jobs run inline in Go.
func Start(numWorkers int) *Pool {
	if numWorkers < 1 {
		numWorkers = runtime.GOMAXPROCS(0)
	}

	pool := &Pool{cancel: func() {}}
	if numWorkers > 1 {
		pool.work = make(chan func(), numWorkers)
		for range numWorkers {
			pool.wg.Go(func() {
				for f := range pool.work {
					f()
				}
			})
		}
		pool.cancel = sync.OnceFunc(func() { close(pool.work) })
	}

	return pool
}

// Go schedules f. It blocks while all workers are busy and the queue is full.
// Go must not be called after Wait.
func (p *Pool) Go(f func() error) {
	job := func() {
		if err := f(); err != nil {
			p.failed.Add(1)
			p.mu.Lock()
			p.errs = append(p.errs, err)
			p.mu.Unlock()
			return
		}
		p.done.Add(1)
	}

	if p.work == nil {
		job()
		return
	}
	p.work <- job
}

// Wait stops accepting jobs, waits for the queued ones and returns their
// errors joined.
func (p *Pool) Wait() error {
	p.cancel()
	p.wg.Wait()

	p.mu.Lock()
	defer p.mu.Unlock()
	return errors.Join(p.errs...)
}

// Stats returns the number of jobs that succeeded and failed so far.
func (p *Pool) Stats() (done, failed uint64) {
	return p.done.Load(), p.failed.Load()
}
