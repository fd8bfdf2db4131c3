package order

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dmitrymomot/orderflow/pkg/lock"
	"github.com/dmitrymomot/orderflow/pkg/logger"
	"github.com/dmitrymomot/orderflow/pkg/statemachine"
)

// Service orchestrates the order use cases. Each mutating call loads the
// order's persisted status, builds an ephemeral machine, hydrates it, sends
// exactly one event and returns the resulting status. The per-order lock
// serializes the whole load-transition-persist sequence, and the store's
// compare-and-swap backstops writers that bypass the lock.
type Service struct {
	store  Store
	locker lock.Locker
	graph  *statemachine.Graph
	log    *slog.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithLocker sets the per-order locker. Defaults to an in-process
// MemoryLocker; use a RedisLocker when several processes mutate the same
// orders.
func WithLocker(l lock.Locker) ServiceOption {
	return func(s *Service) {
		if l != nil {
			s.locker = l
		}
	}
}

// WithLogger sets the logger used for entry actions and machine diagnostics.
func WithLogger(log *slog.Logger) ServiceOption {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// NewService creates an order service over the given store.
func NewService(store Store, opts ...ServiceOption) (*Service, error) {
	if store == nil {
		return nil, errors.New("store cannot be nil")
	}

	s := &Service{
		store:  store,
		locker: lock.NewMemoryLocker(),
		log:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.graph = NewLifecycleGraph(s.log)

	return s, nil
}

// Create persists a new order in the SUBMITTED status.
func (s *Service) Create(ctx context.Context, at time.Time) (Order, error) {
	o, err := s.store.Save(ctx, Order{
		OrderDate: at.UTC(),
		Status:    StatusSubmitted,
	})
	if err != nil {
		return Order{}, fmt.Errorf("create order: %w", err)
	}

	s.log.InfoContext(ctx, "order created", logger.OrderID(o.ID), logger.ToStatus(o.Status.Name()))
	return o, nil
}

// ByID returns the persisted order record.
func (s *Service) ByID(ctx context.Context, id int64) (Order, error) {
	return s.store.FindByID(ctx, id)
}

// Pay applies the PAY event with the given payment confirmation number.
func (s *Service) Pay(ctx context.Context, id int64, confirmationNo string) (Status, error) {
	return s.send(ctx, EventPay, Payload{
		OrderID:               id,
		PaymentConfirmationNo: confirmationNo,
	})
}

// Fulfill applies the FULFILL event with the given delivery address.
func (s *Service) Fulfill(ctx context.Context, id int64, address string) (Status, error) {
	return s.send(ctx, EventFulfill, Payload{
		OrderID: id,
		Address: address,
	})
}

// Cancel applies the CANCEL event. Orders can be cancelled while SUBMITTED
// or PAID.
func (s *Service) Cancel(ctx context.Context, id int64) (Status, error) {
	return s.send(ctx, EventCancel, Payload{OrderID: id})
}

// send runs one event through a fresh machine: validate the payload at the
// boundary, lock the order, load its status, hydrate, fire.
func (s *Service) send(ctx context.Context, event Event, payload Payload) (Status, error) {
	if err := payload.Validate(event); err != nil {
		return "", err
	}

	release, err := s.locker.Acquire(ctx, lockKey(payload.OrderID))
	if err != nil {
		return "", fmt.Errorf("lock order %d: %w", payload.OrderID, err)
	}
	defer func() {
		if err := release(ctx); err != nil {
			s.log.ErrorContext(ctx, "failed to release order lock",
				logger.OrderID(payload.OrderID), logger.Error(err))
		}
	}()

	o, err := s.store.FindByID(ctx, payload.OrderID)
	if err != nil {
		return "", err
	}

	m := statemachine.NewMachine(s.graph,
		statemachine.WithInterceptor(NewPersistStatusInterceptor(s.store)),
		statemachine.WithLogger(s.log),
	)
	if err := m.Reset(o.Status); err != nil {
		return "", err
	}

	next, err := m.Send(ctx, event, payload)
	if err != nil {
		return "", err
	}

	status, ok := next.(Status)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, next.Name())
	}
	return status, nil
}

func lockKey(id int64) string {
	return fmt.Sprintf("order:%d", id)
}
