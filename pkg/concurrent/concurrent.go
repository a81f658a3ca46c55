package concurrent

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// MapAsync runs fn for every element of in, each in its own goroutine, and
// returns the results in input order. It waits for every call to finish and
// returns the first error encountered. Failing calls never cancel their
// siblings: ctx is handed to fn untouched.
func MapAsync[T any, R any](ctx context.Context, in []T, fn func(context.Context, int, T) (R, error)) ([]R, error) {
	out := make([]R, len(in))
	errGroup := errgroup.Group{}

	for idx, value := range in {
		errGroup.Go(func() error {
			res, err := fn(ctx, idx, value)
			if err != nil {
				return err
			}
			out[idx] = res
			return nil
		})
	}

	if err := errGroup.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Settle runs action for every element of in concurrently and reports each
// outcome at the element's position. It never short-circuits.
func Settle[T any](ctx context.Context, in []T, action func(context.Context, T) error) []error {
	errs := make([]error, len(in))
	wg := sync.WaitGroup{}

	for idx, value := range in {
		wg.Add(1)
		go func(i int, v T) {
			defer wg.Done()
			errs[i] = action(ctx, v)
		}(idx, value)
	}

	wg.Wait()
	return errs
}
