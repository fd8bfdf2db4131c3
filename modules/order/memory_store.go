package order

import (
	"context"
	"sync"
)

// MemoryStore implements Store in memory for tests and local development.
// Records are copied on the way in and out so callers never share state with
// the store.
type MemoryStore struct {
	mu     sync.RWMutex
	orders map[int64]Order
	nextID int64
}

// NewMemoryStore creates an empty in-memory order store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		orders: make(map[int64]Order),
		nextID: 1,
	}
}

// FindByID implements Store.
func (ms *MemoryStore) FindByID(ctx context.Context, id int64) (Order, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	o, ok := ms.orders[id]
	if !ok {
		return Order{}, ErrOrderNotFound
	}
	return o, nil
}

// Save implements Store. A zero id means insert; the store assigns the next
// sequential id, mirroring a database serial column.
func (ms *MemoryStore) Save(ctx context.Context, o Order) (Order, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if o.ID == 0 {
		o.ID = ms.nextID
		ms.nextID++
	} else if _, ok := ms.orders[o.ID]; !ok {
		return Order{}, ErrOrderNotFound
	}

	ms.orders[o.ID] = o
	return o, nil
}

// UpdateState implements Store with a compare-and-swap on the status.
func (ms *MemoryStore) UpdateState(ctx context.Context, id int64, from, to Status) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	o, ok := ms.orders[id]
	if !ok {
		return ErrOrderNotFound
	}
	if o.Status != from {
		return ErrConcurrentModification
	}

	o.Status = to
	ms.orders[id] = o
	return nil
}
