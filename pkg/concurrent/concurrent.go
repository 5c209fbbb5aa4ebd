package concurrent

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// ParallelMap applies mapFn to each element of in, preserving order.
// The workers parameter caps the number of goroutines; zero or less means no cap.
// The first error cancels the remaining work and is returned.
func ParallelMap[T any, R any](ctx context.Context, in []T, workers int, mapFn func(context.Context, T) (R, error)) ([]R, error) {
	out := make([]R, len(in))
	group, groupCtx := errgroup.WithContext(ctx)
	if workers > 0 {
		group.SetLimit(workers)
	}

	for idx, val := range in {
		if groupCtx.Err() != nil {
			break
		}
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			res, err := mapFn(groupCtx, val)
			if err != nil {
				return err
			}
			out[idx] = res
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ParallelFilter evaluates keep for every element concurrently and returns
// the kept elements in input order.
func ParallelFilter[T any](ctx context.Context, in []T, workers int, keep func(T) bool) ([]T, error) {
	res, err := ParallelMap(ctx, in, workers, func(_ context.Context, v T) (bool, error) {
		return keep(v), nil
	})
	if err != nil {
		return nil, err
	}

	out := make([]T, 0, len(in))
	for idx, ok := range res {
		if ok {
			out = append(out, in[idx])
		}
	}
	return out, nil
}
