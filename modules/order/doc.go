// Package order models the order lifecycle on top of the statemachine
// engine: SUBMITTED orders get PAID then FULFILLED, or CANCELLED along the
// way, with every transition persisted durably as part of the state change.
//
// # Components
//
// The lifecycle graph (NewLifecycleGraph) is the static transition table.
// The Store interface is the durable storage contract, implemented by
// PGStore (PostgreSQL via pgx, schema in the embedded migrations) and
// MemoryStore (tests and local development). The persistence interceptor
// writes the target status to the store before the machine's in-memory
// state changes, so the record is never ahead of or behind a committed
// transition.
//
// The Service ties them together:
//
//	svc, err := order.NewService(store,
//	    order.WithLogger(log),
//	    order.WithLocker(locker),
//	)
//	o, _ := svc.Create(ctx, time.Now())
//	status, err := svc.Pay(ctx, o.ID, confirmationNo)
//
// # Concurrency
//
// Two concurrent events for the same order id are a lost-update hazard: both
// could load the same stale status and both decide a transition. The service
// guards against this twice. A per-order lock serializes
// load-transition-persist, and the store's UpdateState is a compare-and-swap
// on the status column: a writer whose source status no longer matches gets
// ErrConcurrentModification and must reload.
//
// # Errors
//
// Rejected events (statemachine.IsRejectedError) are expected outcomes, for
// example PAY on an already paid order. ErrMissingIdentifier and
// ErrInvalidPayload surface boundary validation failures before any state is
// touched. Persistence failures abort the transition and wrap the store
// error; the in-memory and persisted states stay unchanged.
package order
