package scheduler

import (
	"context"
	"errors"

	srvErrors "github.com/kubev2v/task-executor/pkg/errors"
)

var ErrNoFutures = errors.New("no futures to wait on")

// WaitAny blocks until one of the futures is terminal and returns its index
// and outcome. The other futures are left untouched.
func WaitAny[T any](ctx context.Context, futures ...*Future[T]) (int, Result[T], error) {
	if len(futures) == 0 {
		return -1, Result[T]{}, ErrNoFutures
	}

	for i, f := range futures {
		select {
		case <-f.Done():
			return i, f.Result(), nil
		default:
		}
	}

	first := make(chan int, len(futures))
	stop := make(chan struct{})
	defer close(stop)
	for i, f := range futures {
		go func() {
			select {
			case <-f.Done():
				first <- i
			case <-stop:
			}
		}()
	}

	select {
	case i := <-first:
		return i, futures[i].Result(), nil
	case <-ctx.Done():
		return -1, Result[T]{}, waitError(ctx)
	}
}

// WaitAll blocks until every future is terminal and returns their outcomes in
// input order. Task failures are reported per outcome, not as the error.
func WaitAll[T any](ctx context.Context, futures ...*Future[T]) ([]Result[T], error) {
	results := make([]Result[T], len(futures))
	for i, f := range futures {
		select {
		case <-f.Done():
			results[i] = f.Result()
		case <-ctx.Done():
			return nil, waitError(ctx)
		}
	}
	return results, nil
}

// WaitAllOrError is WaitAll returning plain values. Once every future is
// terminal, the first failure in input order is returned as the error.
func WaitAllOrError[T any](ctx context.Context, futures ...*Future[T]) ([]T, error) {
	results, err := WaitAll(ctx, futures...)
	if err != nil {
		return nil, err
	}

	values := make([]T, len(results))
	for i, r := range results {
		if r.Err != nil {
			return values, r.Err
		}
		values[i] = r.Data
	}
	return values, nil
}

// InvokeAll submits every work and waits for all of them. If the wait is
// abandoned the unfinished tasks are cancelled.
func InvokeAll[T any](ctx context.Context, s *Scheduler, works ...Work[T]) ([]Result[T], error) {
	futures, err := submitAll(ctx, s, works)
	if err != nil {
		return nil, err
	}

	results, err := WaitAll(ctx, futures...)
	if err != nil {
		cancelAll(futures)
		return nil, err
	}
	return results, nil
}

// InvokeAny submits every work and returns the value of the first one that
// completes successfully. The others are cancelled. If all of them fail the
// last failure is returned.
func InvokeAny[T any](ctx context.Context, s *Scheduler, works ...Work[T]) (T, error) {
	var zero T
	if len(works) == 0 {
		return zero, ErrNoFutures
	}

	futures, err := submitAll(ctx, s, works)
	if err != nil {
		return zero, err
	}
	defer cancelAll(futures)

	pending := futures
	var lastErr error
	for len(pending) > 0 {
		i, res, err := WaitAny(ctx, pending...)
		if err != nil {
			return zero, err
		}
		if res.State == StateCompleted {
			return res.Data, nil
		}
		lastErr = res.Err
		pending = append(pending[:i:i], pending[i+1:]...)
	}
	return zero, lastErr
}

func submitAll[T any](ctx context.Context, s *Scheduler, works []Work[T]) ([]*Future[T], error) {
	futures := make([]*Future[T], 0, len(works))
	for _, w := range works {
		f, err := Submit(ctx, s, w)
		if err != nil {
			cancelAll(futures)
			return nil, err
		}
		futures = append(futures, f)
	}
	return futures, nil
}

func cancelAll[T any](futures []*Future[T]) {
	for _, f := range futures {
		f.Cancel()
	}
}

func waitError(ctx context.Context) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return srvErrors.NewTimeoutError(ctx.Err())
	}
	return ctx.Err()
}
