package order

import (
	"context"
)

// Store is the durable storage contract for order records. It is
// deliberately narrow: the engine's persistence interceptor needs a
// compare-and-swap status update, the service needs lookup and upsert.
type Store interface {
	// FindByID returns the order with the given id or ErrOrderNotFound.
	FindByID(ctx context.Context, id int64) (Order, error)

	// Save upserts an order record, assigning an id on first save.
	Save(ctx context.Context, o Order) (Order, error)

	// UpdateState sets the order's status to the target only if the
	// persisted status still equals the source the transition was decided
	// against. A mismatch fails with ErrConcurrentModification, an absent
	// record with ErrOrderNotFound.
	UpdateState(ctx context.Context, id int64, from, to Status) error
}
