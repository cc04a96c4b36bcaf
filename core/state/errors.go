package state

import "errors"

var (
	ErrFrozen   = errors.New("managed state is frozen")
	ErrNilValue = errors.New("cannot manage an untyped nil value")
)
