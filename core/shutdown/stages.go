package shutdown

import (
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/dmitrymomot/liftoff/core/logger"
)

// Stages tracks the three points of a graceful shutdown:
//
//   - Start trips when shutdown is requested. Listeners stop accepting and
//     idle connections are closed.
//   - Grace trips Config.Grace after Start. In-flight requests are cancelled
//     and blocking reads are interrupted.
//   - Mercy trips Config.Mercy after Grace. Remaining connections are closed.
type Stages struct {
	Start *TripWire
	Grace *TripWire
	Mercy *TripWire

	armOnce sync.Once
}

// NewStages returns stages with no wire tripped.
func NewStages() *Stages {
	return &Stages{
		Start: NewTripWire(),
		Grace: NewTripWire(),
		Mercy: NewTripWire(),
	}
}

// Handle returns a handle bound to the Start wire.
func (s *Stages) Handle() Handle {
	return NewHandle(s.Start)
}

// Arm starts the timer that trips Grace and Mercy once Start has tripped.
// Arming more than once has no effect.
func (s *Stages) Arm(cfg Config) {
	s.armOnce.Do(func() {
		go func() {
			<-s.Start.Done()
			sleep(cfg.Grace)
			s.Grace.Trip()
			sleep(cfg.Mercy)
			s.Mercy.Trip()
		}()
	})
}

// SpawnListener trips Start when one of the configured OS signals arrives.
// The returned function unsubscribes; it is also called automatically once
// Start trips for any reason.
func (s *Stages) SpawnListener(cfg Config, log *slog.Logger) (stop func(), err error) {
	sigs, err := cfg.OSSignals()
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.Nop()
	}

	done := make(chan struct{})
	var once sync.Once
	stop = func() { once.Do(func() { close(done) }) }

	if len(sigs) == 0 {
		return stop, nil
	}

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, sigs...)

	go func() {
		defer signal.Stop(ch)
		select {
		case sig := <-ch:
			log.Warn("received shutdown signal, requesting shutdown",
				logger.Component("shutdown"),
				slog.String("signal", sig.String()),
			)
			s.Start.Trip()
		case <-s.Start.Done():
		case <-done:
		}
	}()

	return stop, nil
}

func sleep(d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	<-t.C
}
