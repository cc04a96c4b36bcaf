package config

import "errors"

var (
	ErrProvider         = errors.New("configuration provider failed")
	ErrExtract          = errors.New("failed to extract configuration")
	ErrInvalidConfig    = errors.New("invalid configuration")
	ErrInvalidSecretKey = errors.New("invalid secret key")
)
