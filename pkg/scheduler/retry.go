package scheduler

import (
	"context"

	"github.com/cenkalti/backoff/v5"
)

// Retry wraps w so that failed attempts are retried according to opts. The
// retries stop as soon as the task context is cancelled. Wrap an error with
// backoff.Permanent to stop retrying.
func Retry[T any](w Work[T], opts ...backoff.RetryOption) Work[T] {
	return func(ctx context.Context) (T, error) {
		return backoff.Retry(ctx, func() (T, error) {
			return w(ctx)
		}, opts...)
	}
}
