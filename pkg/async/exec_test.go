package async_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/liftoff/pkg/async"
)

func TestExecFunctionality(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	type input struct{ A, B int }
	future := async.Exec(ctx, input{A: 10, B: 32}, func(_ context.Context, in input) error {
		if in.A+in.B != 42 {
			return errors.New("sum is not 42")
		}
		return nil
	})

	require.NoError(t, future.Await())
	assert.True(t, future.IsComplete())
}

func TestExecPreCanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var called atomic.Bool
	err := async.Exec(ctx, 0, func(context.Context, int) error {
		called.Store(true)
		return nil
	}).Await()

	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, called.Load())
}

func TestExecRecoversPanics(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	ok := async.Exec(context.Background(), 1, func(context.Context, int) error { return nil })
	bad := async.Exec(context.Background(), 2, func(context.Context, int) error { panic("kaboom") })
	wrapped := async.Exec(context.Background(), 3, func(context.Context, int) error { panic(boom) })

	errs := async.Settle(ok, bad, wrapped)
	require.Len(t, errs, 3)
	assert.NoError(t, errs[0])

	require.ErrorIs(t, errs[1], async.ErrPanic)
	var pe *async.PanicError
	require.ErrorAs(t, errs[1], &pe)
	assert.Equal(t, "kaboom", pe.Value())
	assert.NotEmpty(t, pe.Stack())
	assert.Equal(t, "panic: kaboom", pe.Error())

	assert.ErrorIs(t, errs[2], boom)
	assert.ErrorIs(t, errs[2], async.ErrPanic)
}

func TestExecAllReturnsFirstErrorInOrder(t *testing.T) {
	t.Parallel()

	first := errors.New("first")
	second := errors.New("second")

	slow := async.Exec(context.Background(), 0, func(context.Context, int) error {
		time.Sleep(30 * time.Millisecond)
		return first
	})
	fast := async.Exec(context.Background(), 0, func(context.Context, int) error { return second })

	require.ErrorIs(t, async.ExecAll(slow, fast), first)
	require.NoError(t, async.ExecAll())
}

func TestExecAny(t *testing.T) {
	t.Parallel()

	_, err := async.ExecAny()
	require.ErrorIs(t, err, async.ErrNoFutures)

	block := make(chan struct{})
	defer close(block)

	slow := async.Exec(context.Background(), 0, func(context.Context, int) error {
		<-block
		return nil
	})
	fast := async.Exec(context.Background(), 0, func(context.Context, int) error { return nil })

	idx, err := async.ExecAny(slow, fast)
	require.NoError(t, err)
	assert.Equal(t, 1, idx)
}

func TestAwaitVariants(t *testing.T) {
	t.Parallel()

	block := make(chan struct{})
	f := async.Exec(context.Background(), 0, func(context.Context, int) error {
		<-block
		return nil
	})

	require.ErrorIs(t, f.AwaitWithTimeout(10*time.Millisecond), async.ErrTimeout)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	require.ErrorIs(t, f.AwaitContext(ctx), context.DeadlineExceeded)
	assert.False(t, f.IsComplete())

	close(block)
	<-f.Done()
	require.NoError(t, f.AwaitContext(context.Background()))
}
