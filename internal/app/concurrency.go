package app

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Parallel2 executes two functions concurrently and returns both results or
// the first error. The shared context is canceled when either fails.
func Parallel2[T1, T2 any](
	ctx context.Context,
	fn1 func(context.Context) (T1, error),
	fn2 func(context.Context) (T2, error),
) (result1 T1, result2 T2, err error) {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var fnErr error
		result1, fnErr = fn1(ctx)
		return fnErr
	})

	g.Go(func() error {
		var fnErr error
		result2, fnErr = fn2(ctx)
		return fnErr
	})

	if err = g.Wait(); err != nil {
		var (
			zero1 T1
			zero2 T2
		)

		return zero1, zero2, fmt.Errorf("parallel execution failed: %w", err)
	}

	return result1, result2, nil
}

// PartialResult holds a result or an error for partial success patterns.
type PartialResult[T any] struct {
	Value T
	Err   error
}

// ParallelPartialLimit runs fn over every item with at most limit calls in
// flight and collects every outcome. One failure does not cancel the rest.
// Results are in item order.
func ParallelPartialLimit[T, R any](
	ctx context.Context,
	limit int,
	items []T,
	fn func(context.Context, T) (R, error),
) []PartialResult[R] {
	results := make([]PartialResult[R], len(items))

	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i, item := range items {
		g.Go(func() error {
			value, err := fn(ctx, item)
			results[i] = PartialResult[R]{Value: value, Err: err}
			return nil
		})
	}

	_ = g.Wait()

	return results
}
