package order

import (
	"errors"
	"fmt"
)

// Payload carries entity-identifying and event-specific data through a
// transition. It is validated at the service boundary so the engine and the
// persistence interceptor never perform unchecked type casts on generic
// header maps.
type Payload struct {
	OrderID               int64
	PaymentConfirmationNo string
	Address               string
}

// Validate checks the payload against the requirements of the given event:
// every event needs an order id, PAY needs a payment confirmation number and
// FULFILL needs a delivery address.
func (p Payload) Validate(event Event) error {
	if p.OrderID <= 0 {
		return ErrMissingIdentifier
	}

	switch event {
	case EventPay:
		if p.PaymentConfirmationNo == "" {
			return fmt.Errorf("%w: payment confirmation number is required for %s", ErrInvalidPayload, event)
		}
	case EventFulfill:
		if p.Address == "" {
			return fmt.Errorf("%w: delivery address is required for %s", ErrInvalidPayload, event)
		}
	case EventCancel:
		// Nothing beyond the order id.
	default:
		return errors.Join(ErrInvalidPayload, fmt.Errorf("unsupported event %q", event))
	}

	return nil
}
