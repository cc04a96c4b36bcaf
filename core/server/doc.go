// Package server is the transport of a liftoff instance: it binds endpoints
// and serves HTTP on them with staged shutdown.
//
// A Binder turns an endpoint string into a listener. NetBinder understands
// "host:port" and "unix:/path/to.sock":
//
//	ln, err := server.DefaultBinder.Bind(ctx, "127.0.0.1:8000")
//	if err != nil {
//		return err
//	}
//
//	srv := server.New(ln, handler,
//		server.WithLogger(log),
//		server.WithReadTimeout(10*time.Second),
//	)
//	go srv.Serve()
//
// Shutdown happens in three steps driven by the caller: StopAccepting when
// shutdown starts, Interrupt when the grace period ends and Close when mercy
// runs out. With WithRetainer, every connection and in-flight request holds a
// reference until it is done, which lets the caller wait for quiescence.
package server
