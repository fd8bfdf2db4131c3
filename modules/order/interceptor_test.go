package order_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/orderflow/modules/order"
	"github.com/dmitrymomot/orderflow/pkg/statemachine"
)

func TestPersistStatusInterceptor(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	tr := statemachine.Transition{
		From:  order.StatusSubmitted,
		To:    order.StatusPaid,
		Event: order.EventPay,
	}

	t.Run("persists the target status", func(t *testing.T) {
		t.Parallel()
		store := order.NewMemoryStore()
		o, err := store.Save(ctx, order.Order{OrderDate: time.Now().UTC(), Status: order.StatusSubmitted})
		require.NoError(t, err)

		ic := order.NewPersistStatusInterceptor(store)
		require.NoError(t, ic.BeforeStateChange(ctx, tr, order.Payload{OrderID: o.ID, PaymentConfirmationNo: "X"}))

		persisted, err := store.FindByID(ctx, o.ID)
		require.NoError(t, err)
		assert.Equal(t, order.StatusPaid, persisted.Status)
	})

	t.Run("rejects payloads of the wrong type", func(t *testing.T) {
		t.Parallel()
		ic := order.NewPersistStatusInterceptor(order.NewMemoryStore())

		err := ic.BeforeStateChange(ctx, tr, map[string]any{"orderId": int64(1)})
		assert.ErrorIs(t, err, order.ErrInvalidPayload)
	})

	t.Run("rejects payloads without an order id", func(t *testing.T) {
		t.Parallel()
		ic := order.NewPersistStatusInterceptor(order.NewMemoryStore())

		err := ic.BeforeStateChange(ctx, tr, order.Payload{PaymentConfirmationNo: "X"})
		assert.ErrorIs(t, err, order.ErrMissingIdentifier)
	})

	t.Run("surfaces a missing record", func(t *testing.T) {
		t.Parallel()
		ic := order.NewPersistStatusInterceptor(order.NewMemoryStore())

		err := ic.BeforeStateChange(ctx, tr, order.Payload{OrderID: 404, PaymentConfirmationNo: "X"})
		assert.ErrorIs(t, err, order.ErrOrderNotFound)
	})
}
