package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dmitrymomot/liftoff/core/logger"
)

// Server serves HTTP on a bound listener and reacts to the three shutdown
// stages:
//
//   - StopAccepting closes the listener, disables keep-alives and closes idle
//     connections. In-flight requests continue.
//   - Interrupt cancels request contexts and interrupts blocking reads.
//   - Close closes every remaining connection.
//
// Each method is idempotent and safe for concurrent use.
type Server struct {
	ln       net.Listener
	srv      *http.Server
	logger   *slog.Logger
	endpoint Endpoint

	retain func() (release func())
	conns  sync.Map // net.Conn -> release func
	active atomic.Int64

	baseCtx context.Context
	cancel  context.CancelFunc

	serving atomic.Bool
	stopped atomic.Bool

	stopOnce      sync.Once
	interruptOnce sync.Once
	closeOnce     sync.Once
}

// New creates a server for ln. It panics if ln is nil.
func New(ln net.Listener, h http.Handler, opts ...Option) *Server {
	if ln == nil {
		panic(ErrNilListener)
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		ln:       ln,
		logger:   logger.Nop(),
		endpoint: EndpointOf(ln),
		baseCtx:  ctx,
		cancel:   cancel,
		srv: &http.Server{
			ReadTimeout:    DefaultReadTimeout,
			WriteTimeout:   DefaultWriteTimeout,
			IdleTimeout:    DefaultIdleTimeout,
			MaxHeaderBytes: DefaultMaxHeaderBytes,
		},
	}

	for _, opt := range opts {
		opt(s)
	}

	s.srv.Handler = s.track(h)
	s.srv.BaseContext = func(net.Listener) context.Context { return s.baseCtx }
	s.srv.ConnState = s.connState
	s.srv.ErrorLog = slog.NewLogLogger(s.logger.Handler(), slog.LevelDebug)
	return s
}

// Endpoint returns the endpoint the server listens on.
func (s *Server) Endpoint() Endpoint { return s.endpoint }

// ActiveConnections returns the number of open connections.
func (s *Server) ActiveConnections() int { return int(s.active.Load()) }

// Serve accepts connections until StopAccepting or Close is called, which
// makes it return nil. Any other accept failure is returned. Serve may only
// be called once.
func (s *Server) Serve() error {
	if !s.serving.CompareAndSwap(false, true) {
		return ErrServerAlreadyRunning
	}
	if s.stopped.Load() {
		_ = s.ln.Close()
		return nil
	}
	s.logger.Info("serving", logger.Component("server"), logger.Endpoint(s.endpoint.String()))

	err := s.srv.Serve(s.ln)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// StopAccepting closes the listener and idle connections and turns off
// keep-alives. It does not wait for in-flight requests.
func (s *Server) StopAccepting() {
	s.stopOnce.Do(func() {
		s.stopped.Store(true)
		if !s.serving.Load() {
			_ = s.ln.Close()
		}
		s.srv.SetKeepAlivesEnabled(false)
		go func() {
			// Shutdown returns once every connection is closed; Close
			// unblocks it when mercy runs out.
			if err := s.srv.Shutdown(context.Background()); err != nil {
				s.logger.Debug("shutdown returned", logger.Component("server"), logger.Error(err))
			}
		}()
		s.logger.Debug("stopped accepting connections", logger.Component("server"), logger.Endpoint(s.endpoint.String()))
	})
}

// Interrupt cancels the context of every in-flight request and unblocks
// connection reads.
func (s *Server) Interrupt() {
	s.interruptOnce.Do(func() {
		s.cancel()
		deadline := time.Now()
		n := 0
		s.conns.Range(func(key, _ any) bool {
			if conn, ok := key.(net.Conn); ok {
				if err := conn.SetReadDeadline(deadline); err != nil {
					s.logger.Debug("failed to set read deadline", logger.Component("server"), logger.Error(err))
				}
				n++
			}
			return true
		})
		s.logger.Debug("interrupted blocking reads", logger.Component("server"), logger.Count("connections", n))
	})
}

// Close closes the listener and every connection.
func (s *Server) Close() error {
	var err error
	s.closeOnce.Do(func() {
		s.StopAccepting()
		s.cancel()
		err = s.srv.Close()
		s.logger.Debug("closed all connections", logger.Component("server"), logger.Endpoint(s.endpoint.String()))
	})
	return err
}

func (s *Server) connState(conn net.Conn, state http.ConnState) {
	switch state {
	case http.StateNew:
		s.active.Add(1)
		release := func() {}
		if s.retain != nil {
			release = s.retain()
		}
		s.conns.Store(conn, release)
	case http.StateHijacked, http.StateClosed:
		if v, ok := s.conns.LoadAndDelete(conn); ok {
			s.active.Add(-1)
			v.(func())()
		}
	}
}

func (s *Server) track(h http.Handler) http.Handler {
	if h == nil {
		h = http.NotFoundHandler()
	}
	if s.retain == nil {
		return h
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		release := s.retain()
		defer release()
		h.ServeHTTP(w, r)
	})
}
