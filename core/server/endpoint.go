package server

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"
)

// Endpoint is the network and address of a listener.
type Endpoint struct {
	Network string
	Address string
}

// ParseEndpoint parses "host:port", "tcp:host:port" or "unix:/path".
func ParseEndpoint(s string) (Endpoint, error) {
	s = strings.TrimSpace(s)
	switch {
	case strings.HasPrefix(s, "unix:"):
		path := strings.TrimPrefix(strings.TrimPrefix(s, "unix:"), "//")
		if path == "" {
			return Endpoint{}, fmt.Errorf("%w %q: empty socket path", ErrInvalidEndpoint, s)
		}
		return Endpoint{Network: "unix", Address: path}, nil
	case strings.HasPrefix(s, "tcp:"):
		s = strings.TrimPrefix(strings.TrimPrefix(s, "tcp:"), "//")
	}

	if _, _, err := net.SplitHostPort(s); err != nil {
		return Endpoint{}, fmt.Errorf("%w %q: %w", ErrInvalidEndpoint, s, err)
	}
	return Endpoint{Network: "tcp", Address: s}, nil
}

// EndpointOf returns the endpoint a listener is bound to.
func EndpointOf(l net.Listener) Endpoint {
	addr := l.Addr()
	network := addr.Network()
	if strings.HasPrefix(network, "tcp") {
		network = "tcp"
	}
	return Endpoint{Network: network, Address: addr.String()}
}

func (e Endpoint) String() string {
	if e.Network == "unix" {
		return "unix:" + e.Address
	}
	return "http://" + e.Address
}

// Binder binds an endpoint description to a listener.
type Binder interface {
	Bind(ctx context.Context, endpoint string) (net.Listener, error)
}

// BinderFunc adapts a function into a Binder.
type BinderFunc func(ctx context.Context, endpoint string) (net.Listener, error)

func (f BinderFunc) Bind(ctx context.Context, endpoint string) (net.Listener, error) {
	return f(ctx, endpoint)
}

// NetBinder binds TCP and unix socket endpoints with net.ListenConfig.
type NetBinder struct {
	KeepAlive time.Duration
}

// DefaultBinder is used when no Binder is supplied.
var DefaultBinder Binder = NetBinder{KeepAlive: DefaultKeepAlive}

func (b NetBinder) Bind(ctx context.Context, endpoint string) (net.Listener, error) {
	ep, err := ParseEndpoint(endpoint)
	if err != nil {
		return nil, err
	}
	lc := net.ListenConfig{KeepAlive: b.KeepAlive}
	l, err := lc.Listen(ctx, ep.Network, ep.Address)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrBind, ep, err)
	}
	return l, nil
}
