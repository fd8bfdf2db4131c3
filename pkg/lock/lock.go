package lock

import (
	"context"
)

// Release frees a previously acquired lock. Calling it more than once is an
// error (ErrNotHeld).
type Release func(ctx context.Context) error

// Locker grants exclusive access to a named resource. Acquire blocks until
// the lock is held, the context is done, or the locker's wait limit expires.
type Locker interface {
	Acquire(ctx context.Context, key string) (Release, error)
}
