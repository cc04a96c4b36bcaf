package async

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"
)

// ExecFuture is the pending result of a function started with Exec.
type ExecFuture struct {
	err  error
	done chan struct{}
}

// Await blocks until the function returns.
func (f *ExecFuture) Await() error {
	<-f.done
	return f.err
}

// AwaitWithTimeout is like Await but gives up after timeout with ErrTimeout.
func (f *ExecFuture) AwaitWithTimeout(timeout time.Duration) error {
	t := time.NewTimer(timeout)
	defer t.Stop()

	select {
	case <-f.done:
		return f.err
	case <-t.C:
		return ErrTimeout
	}
}

// AwaitContext is like Await but returns ctx.Err() if ctx ends first.
func (f *ExecFuture) AwaitContext(ctx context.Context) error {
	select {
	case <-f.done:
		return f.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Done returns a channel closed when the function has returned.
func (f *ExecFuture) Done() <-chan struct{} {
	return f.done
}

// IsComplete reports whether the function has returned.
func (f *ExecFuture) IsComplete() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Exec runs fn(ctx, param) in a new goroutine. A panic in fn is recovered and
// reported as a *PanicError; it never crashes the process.
func Exec[T any](ctx context.Context, param T, fn func(context.Context, T) error) *ExecFuture {
	f := &ExecFuture{done: make(chan struct{})}

	go func() {
		defer close(f.done)
		defer func() {
			if p := recover(); p != nil {
				f.err = &PanicError{value: p, stack: debug.Stack()}
			}
		}()

		// Early exit prevents goroutine leak when context is pre-canceled
		select {
		case <-ctx.Done():
			f.err = ctx.Err()
			return
		default:
		}

		f.err = fn(ctx, param)
	}()

	return f
}

// ExecAll waits for every future and returns the first error in argument order.
func ExecAll(futures ...*ExecFuture) error {
	for _, err := range Settle(futures...) {
		if err != nil {
			return err
		}
	}
	return nil
}

// Settle waits for every future and returns their errors in argument order.
func Settle(futures ...*ExecFuture) []error {
	errs := make([]error, len(futures))
	for i, f := range futures {
		errs[i] = f.Await()
	}
	return errs
}

// ExecAny waits for the first future to complete and returns its index and error.
func ExecAny(futures ...*ExecFuture) (int, error) {
	if len(futures) == 0 {
		return -1, ErrNoFutures
	}

	type result struct {
		index int
		err   error
	}
	done := make(chan result, len(futures))

	for i, future := range futures {
		go func(index int, f *ExecFuture) {
			done <- result{index, f.Await()}
		}(i, future)
	}

	res := <-done
	return res.index, res.err
}

// PanicError is returned by a future whose function panicked.
type PanicError struct {
	value any
	stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.value)
}

// Value returns the value passed to panic.
func (e *PanicError) Value() any { return e.value }

// Stack returns the stack trace captured at the panic point.
func (e *PanicError) Stack() []byte { return e.stack }

// Is makes errors.Is(err, ErrPanic) true.
func (e *PanicError) Is(target error) bool { return target == ErrPanic }

// Unwrap allows errors.Is/As to reach an error passed to panic.
func (e *PanicError) Unwrap() error {
	if err, ok := e.value.(error); ok {
		return err
	}
	return nil
}
