package order

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/orderflow/pkg/logger"
	"github.com/dmitrymomot/orderflow/pkg/statemachine"
)

// NewLifecycleGraph builds the order lifecycle transition table:
//
//	SUBMITTED --PAY-->     PAID
//	PAID      --FULFILL--> FULFILLED
//	SUBMITTED --CANCEL-->  CANCELLED
//	PAID      --CANCEL-->  CANCELLED
//
// FULFILLED and CANCELLED are terminal. Entry actions log each committed
// state change through the given logger; they are observational only and
// never affect the transition outcome.
func NewLifecycleGraph(log *slog.Logger) *statemachine.Graph {
	if log == nil {
		log = slog.Default()
	}

	return statemachine.MustNewGraph(StatusSubmitted,
		statemachine.WithTransitions(
			statemachine.Transition{From: StatusSubmitted, To: StatusPaid, Event: EventPay},
			statemachine.Transition{From: StatusPaid, To: StatusFulfilled, Event: EventFulfill},
			statemachine.Transition{From: StatusSubmitted, To: StatusCancelled, Event: EventCancel},
			statemachine.Transition{From: StatusPaid, To: StatusCancelled, Event: EventCancel},
		),
		statemachine.WithTerminal(StatusFulfilled, StatusCancelled),
		statemachine.WithEntryAction(StatusPaid, logEntry(log)),
		statemachine.WithEntryAction(StatusFulfilled, logEntry(log)),
		statemachine.WithEntryAction(StatusCancelled, logEntry(log)),
	)
}

func logEntry(log *slog.Logger) statemachine.Action {
	return func(ctx context.Context, tr statemachine.Transition, data any) error {
		attrs := []any{
			logger.FromStatus(tr.From.Name()),
			logger.ToStatus(tr.To.Name()),
			logger.EventName(tr.Event.Name()),
		}
		if p, ok := data.(Payload); ok {
			attrs = append(attrs, logger.OrderID(p.OrderID))
		}
		log.InfoContext(ctx, "order state changed", attrs...)
		return nil
	}
}
