package handler

import "errors"

var ErrStateNotManaged = errors.New("requested state type is not managed")
