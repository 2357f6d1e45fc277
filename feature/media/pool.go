package media

import (
	"context"
	"sync"
)

// RunPool processes items 0..n-1 with exactly min(workers, n) goroutines pulling
// from a shared queue. done is called once per item after work returns.
// RunPool returns when every item has been processed.
func RunPool(ctx context.Context, n, workers int, work func(ctx context.Context, i int), done func(i int)) {
	if n <= 0 {
		return
	}
	if workers < 1 {
		workers = 1
	}
	if workers > n {
		workers = n
	}

	queue := make(chan int, n)
	for i := 0; i < n; i++ {
		queue <- i
	}
	close(queue)

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range queue {
				work(ctx, i)
				if done != nil {
					done(i)
				}
			}
		}()
	}
	wg.Wait()
}
