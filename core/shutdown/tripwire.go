package shutdown

import (
	"context"
	"sync"
)

// TripWire is a one-shot broadcast signal. Tripping it more than once is a
// no-op; any number of goroutines may wait on it.
type TripWire struct {
	once sync.Once
	ch   chan struct{}
}

// NewTripWire returns an untripped wire.
func NewTripWire() *TripWire {
	return &TripWire{ch: make(chan struct{})}
}

// Trip fires the wire. Returns true only for the call that actually tripped it.
func (w *TripWire) Trip() bool {
	tripped := false
	w.once.Do(func() {
		close(w.ch)
		tripped = true
	})
	return tripped
}

// Tripped reports whether the wire has fired.
func (w *TripWire) Tripped() bool {
	select {
	case <-w.ch:
		return true
	default:
		return false
	}
}

// Done returns a channel that is closed once the wire trips.
func (w *TripWire) Done() <-chan struct{} {
	return w.ch
}

// Wait blocks until the wire trips or ctx is done.
func (w *TripWire) Wait(ctx context.Context) error {
	select {
	case <-w.ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
