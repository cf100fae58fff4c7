// Package parallel provides chunked fan-out helpers on goroutines.
package parallel

import (
	"runtime"
	"sync"
)

// Parallelize divides items across the available CPU cores and executes fn in
// parallel for each range [start, end).
func Parallelize(items int, fn func(start, end int)) {
	ParallelizeWorkers(runtime.NumCPU(), items, func(_, start, end int) {
		fn(start, end)
	})
}

// ParallelizeWithThreshold performs parallelization only when the number of
// items exceeds the threshold. Below it, fn runs once on the whole range.
func ParallelizeWithThreshold(items int, threshold int, fn func(start, end int)) {
	if items <= threshold {
		fn(0, items)
		return
	}
	Parallelize(items, fn)
}

// ParallelizeWorkers splits items into at most workers contiguous ranges of
// ceil(items/workers) elements and runs fn(worker, start, end) for each range
// on its own goroutine. It returns once every range has been processed.
func ParallelizeWorkers(workers, items int, fn func(worker, start, end int)) {
	if items <= 0 {
		return
	}
	if workers < 1 {
		workers = 1
	}
	if workers > items {
		workers = items
	}

	chunkSize := ChunkSize(items, workers)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		start := w * chunkSize
		end := start + chunkSize
		if end > items {
			end = items
		}
		if start >= end {
			continue
		}

		wg.Add(1)
		go func(w, s, e int) {
			defer wg.Done()
			fn(w, s, e)
		}(w, start, end)
	}
	wg.Wait()
}

// ChunkSize is the ceiling division items/workers used to size each range.
func ChunkSize(items, workers int) int {
	if workers < 1 {
		workers = 1
	}
	return (items + workers - 1) / workers
}
