package order

import (
	"context"
	"fmt"

	"github.com/dmitrymomot/orderflow/pkg/statemachine"
)

// persistStatus is the transition interceptor that makes state changes
// durable. It holds an explicit store reference rather than capturing one in
// a closure, and runs before the machine's in-memory state is updated: the
// record is written no earlier than the transition decision, and the
// in-memory state changes no earlier than persistence succeeds.
type persistStatus struct {
	store Store
}

// NewPersistStatusInterceptor returns the interceptor that writes the target
// status to the store as part of each transition.
func NewPersistStatusInterceptor(store Store) statemachine.Interceptor {
	return &persistStatus{store: store}
}

func (p *persistStatus) BeforeStateChange(ctx context.Context, tr statemachine.Transition, data any) error {
	payload, ok := data.(Payload)
	if !ok {
		return fmt.Errorf("%w: expected order.Payload, got %T", ErrInvalidPayload, data)
	}
	if payload.OrderID <= 0 {
		return ErrMissingIdentifier
	}

	from, ok := tr.From.(Status)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownStatus, tr.From.Name())
	}
	to, ok := tr.To.(Status)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownStatus, tr.To.Name())
	}

	return p.store.UpdateState(ctx, payload.OrderID, from, to)
}
