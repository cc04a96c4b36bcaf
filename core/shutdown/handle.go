package shutdown

import "context"

// Handle requests and observes graceful shutdown of a running instance.
//
// Handle is a small value; copies share the same underlying signal, so it can
// be passed to handlers, fairings and background goroutines freely. The zero
// Handle is inert: Notify does nothing and Done never closes.
type Handle struct {
	wire *TripWire
}

// NewHandle wraps a tripwire.
func NewHandle(w *TripWire) Handle {
	return Handle{wire: w}
}

// Notify requests graceful shutdown. Only the first call has an effect.
// It does not wait for shutdown to complete.
func (h Handle) Notify() {
	if h.wire != nil {
		h.wire.Trip()
	}
}

// Notified reports whether shutdown has been requested.
func (h Handle) Notified() bool {
	return h.wire != nil && h.wire.Tripped()
}

// Done returns a channel closed once shutdown has been requested.
func (h Handle) Done() <-chan struct{} {
	if h.wire == nil {
		return nil
	}
	return h.wire.Done()
}

// Wait blocks until shutdown is requested or ctx is done.
func (h Handle) Wait(ctx context.Context) error {
	select {
	case <-h.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
