// internal/pipeline/pipeline.go
package pipeline

import (
	"context"
	"sync"
)

// Config controls the worker pool.
type Config struct {
	Threads int // number of worker goroutines (>=1)
}

// Result is one item's outcome.
type Result[Out any] struct {
	Index int
	Value Out
	Err   error
}

// Map runs fn over every element of in using cfg.Threads workers. visit is
// called from one collector goroutine, so it may fold into unsynchronized
// state. A per-item error from fn is passed to visit, not returned; Map
// returns the first error returned by visit, or ctx.Err() on cancellation.
func Map[In, Out any](
	ctx context.Context,
	cfg Config,
	in []In,
	fn func(In) (Out, error),
	visit func(Result[Out]) error,
) error {
	if cfg.Threads < 1 {
		cfg.Threads = 1
	}
	if cfg.Threads > len(in) && len(in) > 0 {
		cfg.Threads = len(in)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make(chan int, cfg.Threads*2)
	results := make(chan Result[Out], cfg.Threads*2)

	// Workers
	var wg sync.WaitGroup
	wg.Add(cfg.Threads)
	for w := 0; w < cfg.Threads; w++ {
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case i, ok := <-jobs:
					if !ok {
						return
					}
					v, err := fn(in[i])
					select {
					case results <- Result[Out]{Index: i, Value: v, Err: err}:
					case <-ctx.Done():
						return
					}
				}
			}
		}()
	}

	// Collector
	var (
		cerr error
		cwg  sync.WaitGroup
	)
	cwg.Add(1)
	go func() {
		defer cwg.Done()
		for r := range results {
			if cerr != nil {
				continue
			}
			if err := visit(r); err != nil {
				cerr = err
				cancel()
			}
		}
	}()

	// Feed work
feed:
	for i := range in {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- i:
		}
	}

	close(jobs)
	wg.Wait()
	close(results)
	cwg.Wait()

	if cerr != nil {
		return cerr
	}
	return ctx.Err()
}
