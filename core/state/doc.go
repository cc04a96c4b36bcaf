// Package state implements the managed value set: a map from a value's
// dynamic type to exactly one value of that type.
//
//	c := state.New()
//	c.Set(&Counter{})
//	c.Freeze()
//
//	counter, ok := state.Get[*Counter](c)
//
// Values are keyed by their exact dynamic type, so *Counter and Counter are
// distinct entries, and a value stored as a concrete type cannot be fetched
// through an interface type.
package state
