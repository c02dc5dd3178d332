package model

import "errors"

// ErrInvalidArgument is wrapped by every constructor validation failure.
var ErrInvalidArgument = errors.New("invalid argument")
