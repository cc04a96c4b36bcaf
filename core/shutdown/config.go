package shutdown

import (
	"fmt"
	"os"
	"strings"
	"syscall"
	"time"
)

const (
	// DefaultGrace is the default cooperative wind-down period.
	DefaultGrace = 2 * time.Second

	// DefaultMercy is the default forced-close period that follows grace.
	DefaultMercy = 3 * time.Second
)

// Config controls how shutdown is triggered and how long draining may take.
type Config struct {
	// Grace is how long in-flight I/O is given to finish cooperatively.
	Grace time.Duration `env:"GRACE" envDefault:"2s"`

	// Mercy is how long connections are given after grace before being
	// closed forcibly.
	Mercy time.Duration `env:"MERCY" envDefault:"3s"`

	// CtrlC makes an interrupt (SIGINT) trigger shutdown.
	CtrlC bool `env:"CTRLC" envDefault:"true"`

	// Signals lists additional OS signals that trigger shutdown:
	// term, hup, quit, usr1, usr2, int.
	Signals []string `env:"SIGNALS" envSeparator:"," envDefault:"term"`
}

// DefaultConfig returns a Config with the same defaults as the env tags.
func DefaultConfig() Config {
	return Config{
		Grace:   DefaultGrace,
		Mercy:   DefaultMercy,
		CtrlC:   true,
		Signals: []string{"term"},
	}
}

// Validate reports invalid durations or unknown signal names.
func (c Config) Validate() error {
	if c.Grace < 0 {
		return fmt.Errorf("%w: grace must not be negative", ErrInvalidConfig)
	}
	if c.Mercy < 0 {
		return fmt.Errorf("%w: mercy must not be negative", ErrInvalidConfig)
	}
	_, err := ParseSignals(c.Signals)
	return err
}

// OSSignals returns every signal the listener should subscribe to.
func (c Config) OSSignals() ([]os.Signal, error) {
	sigs, err := ParseSignals(c.Signals)
	if err != nil {
		return nil, err
	}
	if c.CtrlC {
		sigs = appendUnique(sigs, os.Interrupt)
	}
	return sigs, nil
}

// ParseSignals converts signal names into os.Signal values.
// Names are case-insensitive and may carry a "sig" prefix.
func ParseSignals(names []string) ([]os.Signal, error) {
	sigs := make([]os.Signal, 0, len(names))
	for _, name := range names {
		n := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(name)), "sig")
		if n == "" {
			continue
		}

		var sig os.Signal
		switch n {
		case "term":
			sig = syscall.SIGTERM
		case "hup":
			sig = syscall.SIGHUP
		case "quit":
			sig = syscall.SIGQUIT
		case "int":
			sig = os.Interrupt
		case "usr1":
			sig = syscall.SIGUSR1
		case "usr2":
			sig = syscall.SIGUSR2
		default:
			return nil, fmt.Errorf("%w: %q", ErrUnknownSignal, name)
		}
		sigs = appendUnique(sigs, sig)
	}
	return sigs, nil
}

func appendUnique(sigs []os.Signal, sig os.Signal) []os.Signal {
	for _, s := range sigs {
		if s == sig {
			return sigs
		}
	}
	return append(sigs, sig)
}
