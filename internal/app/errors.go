package app

import "errors"

// ErrDuplicateID and related errors describe store failures.
var (
	ErrDuplicateID       = errors.New("duplicate project id")
	ErrReentrantMutation = errors.New("store mutated from inside a listener")
)
