package route

import "errors"

var (
	ErrInvalidOrigin    = errors.New("invalid origin")
	ErrDynamicBase      = errors.New("base must not contain dynamic segments")
	ErrWildcardPosition = errors.New("wildcard segment must be last")
	ErrDuplicateParam   = errors.New("duplicate parameter name")
	ErrNilHandler       = errors.New("nil handler")
	ErrInvalidStatus    = errors.New("catcher status must be 0 or in 400..599")
)
