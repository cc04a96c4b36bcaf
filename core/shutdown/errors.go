package shutdown

import "errors"

var (
	ErrInvalidConfig = errors.New("invalid shutdown configuration")
	ErrUnknownSignal = errors.New("unknown shutdown signal")
)
