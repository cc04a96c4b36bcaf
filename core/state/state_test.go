package state_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/liftoff/core/state"
)

type counter struct{ n int }

type label string

func TestContainerSetAndGet(t *testing.T) {
	t.Parallel()

	c := state.New()
	require.True(t, c.Set(&counter{n: 1}))
	require.True(t, c.Set(label("api")))
	require.True(t, c.Set(counter{n: 2}), "value and pointer types are distinct")

	got, ok := state.Get[*counter](c)
	require.True(t, ok)
	assert.Equal(t, 1, got.n)

	l, ok := state.Get[label](c)
	require.True(t, ok)
	assert.Equal(t, label("api"), l)

	_, ok = state.Get[string](c)
	assert.False(t, ok, "label is not string")

	assert.Equal(t, 3, c.Len())
	assert.Equal(t, []string{"*state_test.counter", "state_test.counter", "state_test.label"}, c.TypeNames())
}

func TestContainerRejectsDuplicateType(t *testing.T) {
	t.Parallel()

	c := state.New()
	require.True(t, c.Set(&counter{n: 1}))
	assert.False(t, c.Set(&counter{n: 2}))

	got, _ := state.Get[*counter](c)
	assert.Equal(t, 1, got.n, "first value wins")
}

func TestContainerFreeze(t *testing.T) {
	t.Parallel()

	c := state.New()
	c.Set(label("x"))
	c.Freeze()
	c.Freeze()

	assert.True(t, c.Frozen())
	assert.PanicsWithValue(t, state.ErrFrozen, func() { c.Set(&counter{}) })

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, ok := state.Get[label](c)
			assert.True(t, ok)
			assert.Equal(t, label("x"), v)
		}()
	}
	wg.Wait()
}

func TestContainerNil(t *testing.T) {
	t.Parallel()

	c := state.New()
	assert.PanicsWithValue(t, state.ErrNilValue, func() { c.Set(nil) })

	_, ok := state.Get[label](nil)
	assert.False(t, ok)
}
