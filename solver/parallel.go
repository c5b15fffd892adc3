package solver

import (
	"runtime"
	"sync"
)

// Workers overrides the worker count for parallel sweeps. Zero means
// GOMAXPROCS.
var Workers int

// parallelThreshold is the minimum row count worth splitting across
// goroutines. Below this, single-threaded is faster than the spawn
// overhead.
const parallelThreshold = 64

// parallelRows executes fn for each j in [start, end), split into chunks
// across available workers. Every sweep in the solver is double-buffered,
// so rows are independent and need no ordering between workers.
func parallelRows(start, end int, fn func(j int)) {
	total := end - start
	if total <= 0 {
		return
	}
	workers := Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if total < parallelThreshold || workers == 1 {
		for j := start; j < end; j++ {
			fn(j)
		}
		return
	}
	if workers > total {
		workers = total
	}
	chunk := (total + workers - 1) / workers
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		s := start + w*chunk
		if s >= end {
			break
		}
		e := s + chunk
		if e > end {
			e = end
		}
		wg.Add(1)
		go func(ss, ee int) {
			defer wg.Done()
			for j := ss; j < ee; j++ {
				fn(j)
			}
		}(s, e)
	}
	wg.Wait()
}
