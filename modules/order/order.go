package order

import (
	"fmt"
	"time"
)

// Status is an order's lifecycle position. The set is closed: SUBMITTED is
// the initial status, FULFILLED and CANCELLED are terminal.
type Status string

const (
	StatusSubmitted Status = "SUBMITTED"
	StatusPaid      Status = "PAID"
	StatusFulfilled Status = "FULFILLED"
	StatusCancelled Status = "CANCELLED"
)

// Name implements statemachine.State.
func (s Status) Name() string {
	return string(s)
}

// ParseStatus converts the persisted textual representation back into a
// Status, rejecting anything outside the closed set.
func ParseStatus(raw string) (Status, error) {
	switch s := Status(raw); s {
	case StatusSubmitted, StatusPaid, StatusFulfilled, StatusCancelled:
		return s, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, raw)
	}
}

// Event is an external stimulus requesting an order state change.
type Event string

const (
	EventPay     Event = "PAY"
	EventFulfill Event = "FULFILL"
	EventCancel  Event = "CANCEL"
)

// Name implements statemachine.Event.
func (e Event) Name() string {
	return string(e)
}

// Order is the persisted entity. ID is assigned by the store on first save;
// OrderDate is set at creation and immutable afterwards; Status mutates only
// through committed transitions.
type Order struct {
	ID        int64
	OrderDate time.Time
	Status    Status
}

// IsTerminal reports whether the order's lifecycle has ended.
func (o Order) IsTerminal() bool {
	return o.Status == StatusFulfilled || o.Status == StatusCancelled
}
