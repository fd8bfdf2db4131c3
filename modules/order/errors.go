package order

import "errors"

var (
	// ErrOrderNotFound is returned when the requested order id has no record.
	ErrOrderNotFound = errors.New("order not found")

	// ErrConcurrentModification is returned when the persisted status no
	// longer matches the status the transition was decided against. The
	// caller should reload the order and retry the whole operation.
	ErrConcurrentModification = errors.New("order was modified concurrently")

	// ErrMissingIdentifier is returned when an event payload carries no order
	// id, leaving the engine unable to know which record to update.
	ErrMissingIdentifier = errors.New("event payload is missing the order identifier")

	// ErrInvalidPayload is returned when an event payload fails boundary
	// validation before the engine is invoked.
	ErrInvalidPayload = errors.New("invalid event payload")

	// ErrUnknownStatus is returned when a persisted record carries a status
	// outside the closed lifecycle set.
	ErrUnknownStatus = errors.New("unknown order status")
)
