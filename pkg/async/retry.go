package async

import (
	"context"
	"time"
)

// Retry calls fn until it succeeds, ctx is done or attempts are exhausted.
// The wait after the n-th failure is interval doubled n-1 times. It returns
// the last error of fn, or ctx.Err() if ctx ended first.
func Retry(ctx context.Context, attempts int, interval time.Duration, fn func(context.Context) error) error {
	if attempts < 1 {
		attempts = 1
	}

	var err error
	wait := interval
	for i := range attempts {
		if err = fn(ctx); err == nil {
			return nil
		}
		if i == attempts-1 {
			break
		}

		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
		wait *= 2
	}
	return err
}
