package state

import (
	"reflect"
	"sort"
	"sync"
	"sync/atomic"
)

// Container holds at most one value per dynamic type.
//
// Before Freeze, Set and Get are guarded by a mutex. Freeze disables Set;
// afterwards the map is never written again and Get reads it without locking.
type Container struct {
	mu     sync.RWMutex
	values map[reflect.Type]any
	frozen atomic.Bool
}

// New creates an empty, unfrozen container.
func New() *Container {
	return &Container{values: make(map[reflect.Type]any)}
}

// Set stores v under its dynamic type. It returns false if a value of that
// exact type is already present. Set panics with ErrFrozen after Freeze and
// with ErrNilValue for an untyped nil.
func (c *Container) Set(v any) bool {
	if v == nil {
		panic(ErrNilValue)
	}
	if c.frozen.Load() {
		panic(ErrFrozen)
	}

	t := reflect.TypeOf(v)

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.values[t]; ok {
		return false
	}
	c.values[t] = v
	return true
}

// Lookup returns the value stored for t.
func (c *Container) Lookup(t reflect.Type) (any, bool) {
	if c.frozen.Load() {
		v, ok := c.values[t]
		return v, ok
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.values[t]
	return v, ok
}

// Has reports whether a value of type t is managed.
func (c *Container) Has(t reflect.Type) bool {
	_, ok := c.Lookup(t)
	return ok
}

// Freeze makes the container read-only. Freezing twice is a no-op.
func (c *Container) Freeze() {
	c.mu.Lock()
	c.frozen.Store(true)
	c.mu.Unlock()
}

// Frozen reports whether Freeze has been called.
func (c *Container) Frozen() bool {
	return c.frozen.Load()
}

// Len returns the number of managed values.
func (c *Container) Len() int {
	if c.frozen.Load() {
		return len(c.values)
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.values)
}

// TypeNames returns the sorted type names of all managed values.
func (c *Container) TypeNames() []string {
	if !c.frozen.Load() {
		c.mu.RLock()
		defer c.mu.RUnlock()
	}
	names := make([]string, 0, len(c.values))
	for t := range c.values {
		names = append(names, t.String())
	}
	sort.Strings(names)
	return names
}

// Get returns the value of type T stored in c.
func Get[T any](c *Container) (T, bool) {
	var zero T
	if c == nil {
		return zero, false
	}
	v, ok := c.Lookup(reflect.TypeFor[T]())
	if !ok {
		return zero, false
	}
	typed, ok := v.(T)
	return typed, ok
}
