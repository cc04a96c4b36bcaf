package liftoff

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"sync/atomic"

	"github.com/dmitrymomot/liftoff/core/logger"
	"github.com/dmitrymomot/liftoff/core/route"
)

// Builder misuse. These are raised as panics.
var (
	ErrConsumed       = errors.New("liftoff: instance was already finalized or launched")
	ErrDuplicateState = errors.New("liftoff: state for this type is already managed")
	ErrNilFairing     = errors.New("liftoff: nil fairing")
)

// Sentinels matched by errors.Is against an *Error of the same kind.
var (
	ErrConfig            = errors.New("liftoff: configuration error")
	ErrInsecureSecretKey = errors.New("liftoff: secret key is missing or weak")
	ErrFairingsAborted   = errors.New("liftoff: finalize aborted by fairing")
	ErrFairingConflict   = errors.New("liftoff: conflicting fairings")
	ErrCollisions        = errors.New("liftoff: route or catcher collisions")
	ErrSentinelAborts    = errors.New("liftoff: aborted by sentinels")
	ErrBind              = errors.New("liftoff: failed to bind endpoint")
	ErrLiftoff           = errors.New("liftoff: liftoff failed")
	ErrShutdown          = errors.New("liftoff: graceful shutdown timed out")
	ErrServe             = errors.New("liftoff: serving failed")
)

// ErrorKind classifies an *Error.
type ErrorKind uint8

const (
	KindConfig ErrorKind = iota + 1
	KindInsecureSecretKey
	KindFairingsAborted
	KindFairingConflict
	KindCollisions
	KindSentinelAborts
	KindBind
	KindLiftoff
	KindShutdown
	KindServe
)

var kindSentinels = map[ErrorKind]error{
	KindConfig:            ErrConfig,
	KindInsecureSecretKey: ErrInsecureSecretKey,
	KindFairingsAborted:   ErrFairingsAborted,
	KindFairingConflict:   ErrFairingConflict,
	KindCollisions:        ErrCollisions,
	KindSentinelAborts:    ErrSentinelAborts,
	KindBind:              ErrBind,
	KindLiftoff:           ErrLiftoff,
	KindShutdown:          ErrShutdown,
	KindServe:             ErrServe,
}

func (k ErrorKind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindInsecureSecretKey:
		return "insecure_secret_key"
	case KindFairingsAborted:
		return "fairings_aborted"
	case KindFairingConflict:
		return "fairing_conflict"
	case KindCollisions:
		return "collisions"
	case KindSentinelAborts:
		return "sentinel_aborts"
	case KindBind:
		return "bind"
	case KindLiftoff:
		return "liftoff"
	case KindShutdown:
		return "shutdown"
	case KindServe:
		return "serve"
	default:
		return "unknown"
	}
}

// Error is returned by Finalize and Launch. Its payload depends on Kind.
//
// An Error that is dropped without being inspected is reported at error
// level on the instance logger when it is garbage collected. Calling any
// method marks it as inspected.
type Error struct {
	kind ErrorKind
	err  error

	profile    string
	endpoint   string
	attempted  []string
	aborted    string
	conflicts  [][2]Info
	collisions route.Collisions
	sentinels  []string
	finalized  *Finalized
	orbiting   *Orbiting

	handled atomic.Bool
	log     *slog.Logger
}

func newError(log *slog.Logger, kind ErrorKind, err error) *Error {
	e := &Error{kind: kind, err: err, log: log}
	runtime.SetFinalizer(e, reportUnhandled)
	return e
}

func reportUnhandled(e *Error) {
	if e.handled.Load() || e.log == nil {
		return
	}
	e.log.Error("liftoff error was never handled",
		logger.Component("liftoff"),
		logger.Key("kind", e.kind.String()),
		logger.Key("error", e.message()),
	)
}

func (e *Error) mark() { e.handled.Store(true) }

// Kind returns the error kind.
func (e *Error) Kind() ErrorKind {
	e.mark()
	return e.kind
}

func (e *Error) Error() string {
	e.mark()
	return e.message()
}

func (e *Error) message() string {
	switch e.kind {
	case KindConfig:
		return fmt.Sprintf("%s: %v", ErrConfig, e.err)
	case KindInsecureSecretKey:
		return fmt.Sprintf("%s in profile %q", ErrInsecureSecretKey, e.profile)
	case KindFairingsAborted:
		return fmt.Sprintf("%s %q (attempted: %s): %v", ErrFairingsAborted, e.aborted, strings.Join(e.attempted, ", "), e.err)
	case KindFairingConflict:
		pairs := make([]string, 0, len(e.conflicts))
		for _, c := range e.conflicts {
			pairs = append(pairs, fmt.Sprintf("%s (%s) <> %s (%s)", c[0].Name, c[0].Kind, c[1].Name, c[1].Kind))
		}
		return fmt.Sprintf("%s: %s", ErrFairingConflict, strings.Join(pairs, "; "))
	case KindCollisions:
		return fmt.Sprintf("%s: %s", ErrCollisions, e.collisions)
	case KindSentinelAborts:
		return fmt.Sprintf("%s: %s", ErrSentinelAborts, strings.Join(e.sentinels, ", "))
	case KindBind:
		return fmt.Sprintf("%s %s: %v", ErrBind, e.endpoint, e.err)
	case KindLiftoff:
		return fmt.Sprintf("%s: %v", ErrLiftoff, e.err)
	case KindShutdown:
		refs := int64(0)
		if e.orbiting != nil {
			refs = e.orbiting.Refs() - 1
		}
		return fmt.Sprintf("%s with %d outstanding references", ErrShutdown, refs)
	case KindServe:
		return fmt.Sprintf("%s: %v", ErrServe, e.err)
	default:
		return "liftoff: unknown error"
	}
}

// Is matches the sentinel of the error kind.
func (e *Error) Is(target error) bool {
	e.mark()
	return kindSentinels[e.kind] == target
}

// As marks the error as inspected; matching is done by errors.As.
func (e *Error) As(any) bool {
	e.mark()
	return false
}

func (e *Error) Unwrap() error {
	e.mark()
	return e.err
}

// Profile returns the profile of an InsecureSecretKey error.
func (e *Error) Profile() string { e.mark(); return e.profile }

// Endpoint returns the endpoint of a Bind error.
func (e *Error) Endpoint() string { e.mark(); return e.endpoint }

// Attempted returns the finalize fairings that ran, including the aborting one.
func (e *Error) Attempted() []string { e.mark(); return e.attempted }

// Aborted returns the name of the finalize fairing that aborted.
func (e *Error) Aborted() string { e.mark(); return e.aborted }

// Conflicts returns the conflicting fairing pairs.
func (e *Error) Conflicts() [][2]Info { e.mark(); return e.conflicts }

// Collisions returns the colliding routes and catchers.
func (e *Error) Collisions() route.Collisions { e.mark(); return e.collisions }

// Sentinels returns the names of the aborting sentinels.
func (e *Error) Sentinels() []string { e.mark(); return e.sentinels }

// Finalized returns the instance after a Liftoff or Serve error, once it has
// been drained. It is nil when draining timed out.
func (e *Error) Finalized() *Finalized { e.mark(); return e.finalized }

// Orbiting returns the still-running instance of a Shutdown error, or of a
// Liftoff error whose drain timed out. Wait for it with AwaitQuiescence.
func (e *Error) Orbiting() *Orbiting { e.mark(); return e.orbiting }

// ErrNilResponse is passed to the 500 catcher when a handler returns nil.
var ErrNilResponse = errors.New("liftoff: handler returned a nil response")
