package lock

import "errors"

var (
	ErrEmptyKey    = errors.New("lock key cannot be empty")
	ErrNilClient   = errors.New("redis client cannot be nil")
	ErrNotAcquired = errors.New("lock not acquired within the wait limit")
	ErrNotHeld     = errors.New("lock is not held")
)
