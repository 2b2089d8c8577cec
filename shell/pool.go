package shell

import (
	"context"
	"time"

	"github.com/yaoapp/kun/log"
)

// Pool bounds the number of engines running at the same time. Runners
// sharing a pool queue for a free worker before they spawn a process.
type Pool struct {
	size    int
	workers chan struct{}
}

// NewPool create a pool of size workers, size < 1 means one worker
func NewPool(size int) *Pool {
	if size < 1 {
		size = 1
	}
	return &Pool{size: size, workers: make(chan struct{}, size)}
}

// Size the number of workers
func (pool *Pool) Size() int {
	return pool.size
}

// Busy the number of workers in use
func (pool *Pool) Busy() int {
	return len(pool.workers)
}

// Acquire waits for a free worker or for ctx to be done
func (pool *Pool) Acquire(ctx context.Context) error {
	select {
	case pool.workers <- struct{}{}:
		return nil
	default:
	}

	start := time.Now()
	select {
	case pool.workers <- struct{}{}:
		log.Trace("[Shell] waited %s for a worker", time.Since(start))
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Release returns a worker to the pool
func (pool *Pool) Release() {
	<-pool.workers
}
