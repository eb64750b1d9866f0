package ffcc

import (
	"runtime"
	"sync"
)

// parallelFor runs fn(0)..fn(n-1) across workers goroutines, strided
// so neighboring elements land on different workers. fn must be safe
// to call concurrently for distinct i, which every batch op here is.
func parallelFor(n, workers int, fn func(i int)) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > n {
		workers = n
	}
	if workers <= 1 {
		for i := 0; i < n; i++ {
			fn(i)
		}
		return
	}

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(start int) {
			defer wg.Done()
			for i := start; i < n; i += workers {
				fn(i)
			}
		}(w)
	}
	wg.Wait()
}
