package actor

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// pool bounds the number of concurrently running reactions with a weighted
// semaphore. A thread-based wait gives its permit back while parked (see
// beginBlocking/endBlocking), so an actor blocked in Receive never starves
// runnable actors even on a single-permit pool.
type pool struct {
	sem *semaphore.Weighted
}

func newPool(maxWorkers int) *pool {
	return &pool{sem: semaphore.NewWeighted(int64(maxWorkers))}
}

// submit runs f on the pool once a permit is available.
func (p *pool) submit(f func()) {
	go func() {
		_ = p.sem.Acquire(context.Background(), 1)
		defer p.sem.Release(1)
		f()
	}()
}

// beginBlocking releases the caller's permit ahead of a long park.
// The caller must pair it with endBlocking before touching pool-owned work
// again. Both calls must happen on a goroutine started by submit.
func (p *pool) beginBlocking() { p.sem.Release(1) }

// endBlocking reacquires the permit released by beginBlocking.
func (p *pool) endBlocking() { _ = p.sem.Acquire(context.Background(), 1) }
