package route

import (
	"fmt"
	"reflect"
)

// Inspector is the read-only view of a finalized instance given to sentinels.
type Inspector interface {
	Routes() []*Route
	Catchers() []*Catcher
	Managed(t reflect.Type) bool
	Profile() string
}

// Sentinel validates a finalized instance and may abort launch.
type Sentinel interface {
	Name() string
	Abort(in Inspector) bool
}

type sentinelFunc struct {
	name string
	fn   func(Inspector) bool
}

func (s sentinelFunc) Name() string            { return s.name }
func (s sentinelFunc) Abort(in Inspector) bool { return s.fn(in) }

// SentinelFunc adapts fn into a sentinel.
func SentinelFunc(name string, fn func(in Inspector) bool) Sentinel {
	return sentinelFunc{name: name, fn: fn}
}

// RequireState aborts when no value of type T is managed.
func RequireState[T any]() Sentinel {
	t := reflect.TypeFor[T]()
	return SentinelFunc(fmt.Sprintf("state[%s]", t), func(in Inspector) bool {
		return !in.Managed(t)
	})
}

// RequireCatcher aborts when no catcher handles code at the root base.
func RequireCatcher(code int) Sentinel {
	return SentinelFunc(fmt.Sprintf("catcher[%d]", code), func(in Inspector) bool {
		for _, c := range in.Catchers() {
			if c.code == code && c.base.IsRoot() {
				return false
			}
		}
		return true
	})
}
