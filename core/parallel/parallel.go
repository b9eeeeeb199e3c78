package parallel

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/cockroachdb/errors"
	"golang.org/x/sync/errgroup"
)

// Parallelize divides the specified total number (items) according to the number of CPU cores,
// and executes the specified function (fn) in parallel for each range (start, end)
func Parallelize(items int, fn func(start, end int)) {
	if items == 0 {
		return
	}

	numWorkers := runtime.NumCPU()
	if numWorkers > items {
		numWorkers = items
	}

	// ceiling division
	chunkSize := (items + numWorkers - 1) / numWorkers

	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		start := i * chunkSize
		end := min(start+chunkSize, items)
		if start >= end {
			continue
		}
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}
	wg.Wait()
}

// ParallelizeWithThreshold performs parallelization only when the number of items exceeds the threshold
// If below threshold, normal sequential processing is performed
func ParallelizeWithThreshold(items int, threshold int, fn func(start, end int)) {
	if items <= threshold {
		fn(0, items)
		return
	}
	Parallelize(items, fn)
}

// Workers resolves a requested worker count: values below 1 mean one
// worker per CPU.
func Workers(requested int) int {
	if requested < 1 {
		return runtime.NumCPU()
	}
	return requested
}

// ForEach runs fn for every task index in [0, n) on at most workers
// goroutines. Each task is a whole unit of work and the context is only
// checked between tasks, never inside one.
//
// Tasks must write their results to disjoint slots. When several tasks fail,
// the error of the lowest task index is returned, as in a sequential run.
// After a failure, tasks above the lowest failed index are skipped; tasks
// below it still run.
func ForEach(ctx context.Context, n, workers int, fn func(task int) error) error {
	if workers <= 1 || n <= 1 {
		for i := 0; i < n; i++ {
			if err := ctx.Err(); err != nil {
				return errors.WithStack(err)
			}
			if err := fn(i); err != nil {
				return err
			}
		}
		return nil
	}

	errs := make([]error, n)
	var lowestFailed atomic.Int64
	lowestFailed.Store(int64(n))

	var g errgroup.Group
	g.SetLimit(workers)
	for i := 0; i < n; i++ {
		if ctx.Err() != nil || int64(i) > lowestFailed.Load() {
			break
		}
		g.Go(func() error {
			if ctx.Err() != nil || int64(i) > lowestFailed.Load() {
				return nil
			}
			if err := fn(i); err != nil {
				errs[i] = err
				for {
					cur := lowestFailed.Load()
					if int64(i) >= cur || lowestFailed.CompareAndSwap(cur, int64(i)) {
						break
					}
				}
			}
			return nil
		})
	}
	_ = g.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	if err := ctx.Err(); err != nil {
		return errors.WithStack(err)
	}
	return nil
}
