// Package pool provides a bounded worker pool for the embarrassingly
// parallel, order-preserving batches the engine runs: per-input
// commitment generation and per-bit proof-of-bit generation (spec §5,
// §9). The external shape (NewPool(0), defer pl.TearDown()) mirrors the
// corpus's pool.Pool used across protocols/lss and cmd/threshold-cli.
package pool

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Pool bounds the number of goroutines used by Map.
type Pool struct {
	workers int
}

// NewPool creates a Pool with the given number of workers. A workers
// value of 0 defaults to runtime.GOMAXPROCS(0), matching the corpus's
// pool.NewPool(0) convention of "use all available cores".
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Pool{workers: workers}
}

// TearDown releases any resources held by the pool. Map does not keep
// any goroutines alive between calls, so this is currently a no-op; it
// exists so callers can write the same defer pl.TearDown() idiom the
// corpus uses regardless of the pool's internal implementation.
func (p *Pool) TearDown() {}

// Map applies fn to every index in [0, n) using at most p.workers
// goroutines concurrently, and returns the results in input order. fn
// must be safe to call concurrently with an independent randomness
// source per call (spec §5: "per-bit randomness source is independent
// across workers"). The first error returned by any fn call aborts the
// remaining work and is returned to the caller.
func Map[T any](p *Pool, n int, fn func(i int) (T, error)) ([]T, error) {
	results := make([]T, n)
	if n == 0 {
		return results, nil
	}

	sem := make(chan struct{}, p.workers)
	g, ctx := errgroup.WithContext(context.Background())

	for i := 0; i < n; i++ {
		i := i
		sem <- struct{}{}
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			defer func() { <-sem }()
			r, err := fn(i)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
