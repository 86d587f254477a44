package utils

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestWorkerPoolRunsAllJobs(t *testing.T) {
	pool := NewWorkerPool(3)

	var count int64
	for i := 0; i < 20; i++ {
		pool.Submit(func() {
			atomic.AddInt64(&count, 1)
		})
	}
	pool.Wait()

	if count != 20 {
		t.Errorf("expected 20 jobs to run, got %d", count)
	}
}

func TestWorkerPoolBoundsConcurrency(t *testing.T) {
	const maxWorkers = 2
	pool := NewWorkerPool(maxWorkers)

	var mu sync.Mutex
	running, peak := 0, 0

	for i := 0; i < 10; i++ {
		pool.Submit(func() {
			mu.Lock()
			running++
			if running > peak {
				peak = running
			}
			mu.Unlock()

			mu.Lock()
			running--
			mu.Unlock()
		})
	}
	pool.Wait()

	if peak > maxWorkers {
		t.Errorf("peak concurrency %d exceeded limit %d", peak, maxWorkers)
	}
}
