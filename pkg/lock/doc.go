// Package lock provides per-key mutual exclusion for callers that must
// serialize a load-modify-persist sequence on a shared entity.
//
// Two implementations of the Locker interface are provided:
//
//   - MemoryLocker serializes within one process using a keyed channel
//     semaphore. It is the right choice for tests and single-instance
//     deployments.
//   - RedisLocker serializes across processes with the Redis SET NX PX
//     pattern and token-checked release, bounding stale locks with a TTL.
//
// Usage:
//
//	release, err := locker.Acquire(ctx, "order:42")
//	if err != nil {
//	    return err
//	}
//	defer release(ctx)
//
// Acquire blocks until the lock is granted; RedisLocker additionally gives up
// with ErrNotAcquired after its configured wait limit. Release is safe to
// call exactly once; further calls return ErrNotHeld.
package lock
