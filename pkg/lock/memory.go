package lock

import (
	"context"
	"sync"
)

// MemoryLocker serializes access per key within a single process. Suitable
// for tests, local development and single-instance deployments; use
// RedisLocker when multiple processes mutate the same entities.
type MemoryLocker struct {
	mu   sync.Mutex
	keys map[string]*memoryKey
}

// memoryKey is a one-slot channel semaphore with a waiter count so idle
// entries can be removed from the map.
type memoryKey struct {
	slot chan struct{}
	refs int
}

// NewMemoryLocker creates an in-process keyed locker.
func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{
		keys: make(map[string]*memoryKey),
	}
}

// Acquire blocks until the key's slot is free or the context is done.
func (l *MemoryLocker) Acquire(ctx context.Context, key string) (Release, error) {
	if key == "" {
		return nil, ErrEmptyKey
	}

	l.mu.Lock()
	k, ok := l.keys[key]
	if !ok {
		k = &memoryKey{slot: make(chan struct{}, 1)}
		l.keys[key] = k
	}
	k.refs++
	l.mu.Unlock()

	select {
	case k.slot <- struct{}{}:
	case <-ctx.Done():
		l.drop(key, k)
		return nil, ctx.Err()
	}

	var once sync.Once
	release := func(ctx context.Context) error {
		err := ErrNotHeld
		once.Do(func() {
			<-k.slot
			l.drop(key, k)
			err = nil
		})
		return err
	}
	return release, nil
}

func (l *MemoryLocker) drop(key string, k *memoryKey) {
	l.mu.Lock()
	defer l.mu.Unlock()
	k.refs--
	if k.refs == 0 {
		delete(l.keys, key)
	}
}
