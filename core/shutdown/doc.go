// Package shutdown provides the signalling primitives behind graceful shutdown.
//
// A TripWire is a one-shot broadcast. Stages groups three of them (Start,
// Grace, Mercy); once Start trips, an armed Stages trips Grace after the
// configured grace period and Mercy after the mercy period that follows.
// Transports watch the wires to stop accepting, cancel in-flight work and
// finally force-close connections.
//
// Handle is the user-facing, copyable token bound to Start:
//
//	h := finalized.Shutdown()
//	go func() {
//		<-time.After(time.Minute)
//		h.Notify()
//	}()
package shutdown
