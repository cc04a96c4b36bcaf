package server_test

import (
	"context"
	"io"
	"net"
	"net/http"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/liftoff/core/server"
)

func TestParseEndpoint(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    server.Endpoint
		wantErr bool
	}{
		{input: "127.0.0.1:8000", want: server.Endpoint{Network: "tcp", Address: "127.0.0.1:8000"}},
		{input: ":8080", want: server.Endpoint{Network: "tcp", Address: ":8080"}},
		{input: "tcp://[::1]:80", want: server.Endpoint{Network: "tcp", Address: "[::1]:80"}},
		{input: "unix:/run/app.sock", want: server.Endpoint{Network: "unix", Address: "/run/app.sock"}},
		{input: "unix:", wantErr: true},
		{input: "localhost", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			got, err := server.ParseEndpoint(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, server.ErrInvalidEndpoint)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	assert.Equal(t, "unix:/tmp/x.sock", server.Endpoint{Network: "unix", Address: "/tmp/x.sock"}.String())
	assert.Equal(t, "http://127.0.0.1:80", server.Endpoint{Network: "tcp", Address: "127.0.0.1:80"}.String())
}

func TestNetBinder(t *testing.T) {
	t.Parallel()

	ln, err := server.DefaultBinder.Bind(context.Background(), "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	assert.Equal(t, "tcp", server.EndpointOf(ln).Network)

	_, err = server.DefaultBinder.Bind(context.Background(), ln.Addr().String())
	require.ErrorIs(t, err, server.ErrBind)

	sock := filepath.Join(t.TempDir(), "s.sock")
	uln, err := server.DefaultBinder.Bind(context.Background(), "unix:"+sock)
	require.NoError(t, err)
	defer uln.Close()
	assert.Equal(t, server.Endpoint{Network: "unix", Address: sock}, server.EndpointOf(uln))
}

func TestConfig(t *testing.T) {
	t.Parallel()

	require.NoError(t, server.DefaultConfig().Validate())

	cfg := server.DefaultConfig()
	cfg.IdleTimeout = -time.Second
	require.ErrorIs(t, cfg.Validate(), server.ErrInvalidConfig)

	assert.Len(t, server.DefaultConfig().Options(), 4)
}

func TestNewPanicsOnNilListener(t *testing.T) {
	t.Parallel()
	assert.PanicsWithValue(t, server.ErrNilListener, func() { server.New(nil, nil) })
}

type refs struct{ n atomic.Int64 }

func (r *refs) retain() func() {
	r.n.Add(1)
	var done atomic.Bool
	return func() {
		if done.CompareAndSwap(false, true) {
			r.n.Add(-1)
		}
	}
}

func start(t *testing.T, h http.Handler, opts ...server.Option) (*server.Server, string, <-chan error) {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv := server.New(ln, h, opts...)
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve() }()
	t.Cleanup(func() { _ = srv.Close() })
	return srv, "http://" + ln.Addr().String(), errCh
}

func TestServerStopAcceptingLetsInFlightFinish(t *testing.T) {
	t.Parallel()

	entered := make(chan struct{})
	proceed := make(chan struct{})
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(entered)
		<-proceed
		_, _ = io.WriteString(w, "done")
	})

	var r refs
	srv, url, errCh := start(t, h, server.WithRetainer(r.retain))

	respCh := make(chan string, 1)
	go func() {
		resp, err := http.Get(url)
		if err != nil {
			respCh <- err.Error()
			return
		}
		defer resp.Body.Close()
		b, _ := io.ReadAll(resp.Body)
		respCh <- string(b)
	}()

	<-entered
	assert.GreaterOrEqual(t, r.n.Load(), int64(2), "connection and request hold references")

	srv.StopAccepting()
	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after StopAccepting")
	}

	close(proceed)
	assert.Equal(t, "done", <-respCh)
	assert.Eventually(t, func() bool { return r.n.Load() == 0 }, 2*time.Second, 5*time.Millisecond)
	assert.Eventually(t, func() bool { return srv.ActiveConnections() == 0 }, 2*time.Second, 5*time.Millisecond)
}

func TestServerInterruptCancelsRequests(t *testing.T) {
	t.Parallel()

	entered := make(chan struct{})
	cancelled := make(chan struct{})
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(entered)
		<-r.Context().Done()
		close(cancelled)
	})

	srv, url, _ := start(t, h)
	go func() {
		resp, err := http.Get(url)
		if err == nil {
			resp.Body.Close()
		}
	}()

	<-entered
	srv.StopAccepting()
	srv.Interrupt()
	srv.Interrupt()

	select {
	case <-cancelled:
	case <-time.After(2 * time.Second):
		t.Fatal("request context was not cancelled")
	}
}

func TestServerCloseIsIdempotent(t *testing.T) {
	t.Parallel()

	srv, _, errCh := start(t, http.NotFoundHandler())
	require.NoError(t, srv.Close())
	require.NoError(t, srv.Close())
	require.NoError(t, <-errCh)
	srv.StopAccepting()
}

func TestServerStopBeforeServeClosesListener(t *testing.T) {
	t.Parallel()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()

	srv := server.New(ln, http.NotFoundHandler())
	srv.StopAccepting()
	require.NoError(t, srv.Serve())
	require.ErrorIs(t, srv.Serve(), server.ErrServerAlreadyRunning)

	_, err = net.DialTimeout("tcp", addr, 200*time.Millisecond)
	require.Error(t, err)
}
