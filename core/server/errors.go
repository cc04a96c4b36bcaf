package server

import "errors"

var (
	ErrInvalidEndpoint = errors.New("invalid endpoint")
	ErrBind            = errors.New("failed to bind endpoint")
	ErrNilListener     = errors.New("nil listener")
	ErrInvalidConfig   = errors.New("invalid server configuration")

	ErrServerAlreadyRunning = errors.New("server is already running")
)
