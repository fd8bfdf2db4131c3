package order_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/orderflow/modules/order"
	"github.com/dmitrymomot/orderflow/pkg/statemachine"
)

func newTestService(t *testing.T, store order.Store) *order.Service {
	t.Helper()
	svc, err := order.NewService(store, order.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	require.NoError(t, err)
	return svc
}

// flakyStore wraps a Store and fails UpdateState on demand, to exercise the
// persistence-failure path of the transition protocol.
type flakyStore struct {
	order.Store
	mu      sync.Mutex
	failing bool
}

var errStorageDown = errors.New("storage down")

func (fs *flakyStore) setFailing(failing bool) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.failing = failing
}

func (fs *flakyStore) UpdateState(ctx context.Context, id int64, from, to order.Status) error {
	fs.mu.Lock()
	failing := fs.failing
	fs.mu.Unlock()
	if failing {
		return errStorageDown
	}
	return fs.Store.UpdateState(ctx, id, from, to)
}

func TestServiceCreate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := order.NewMemoryStore()
	svc := newTestService(t, store)

	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	o, err := svc.Create(ctx, at)
	require.NoError(t, err)

	assert.NotZero(t, o.ID)
	assert.Equal(t, at, o.OrderDate)
	assert.Equal(t, order.StatusSubmitted, o.Status)

	persisted, err := svc.ByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, o, persisted)
}

func TestServicePay(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("submitted order becomes paid, durably", func(t *testing.T) {
		t.Parallel()
		store := order.NewMemoryStore()
		svc := newTestService(t, store)

		o, err := svc.Create(ctx, time.Now())
		require.NoError(t, err)

		status, err := svc.Pay(ctx, o.ID, "X")
		require.NoError(t, err)
		assert.Equal(t, order.StatusPaid, status)

		persisted, err := store.FindByID(ctx, o.ID)
		require.NoError(t, err)
		assert.Equal(t, order.StatusPaid, persisted.Status)
	})

	t.Run("paying twice is rejected without touching the record", func(t *testing.T) {
		t.Parallel()
		store := order.NewMemoryStore()
		svc := newTestService(t, store)

		o, err := svc.Create(ctx, time.Now())
		require.NoError(t, err)

		_, err = svc.Pay(ctx, o.ID, "X")
		require.NoError(t, err)

		_, err = svc.Pay(ctx, o.ID, "Y")
		assert.True(t, statemachine.IsRejectedError(err), "expected rejection, got %v", err)

		persisted, err := store.FindByID(ctx, o.ID)
		require.NoError(t, err)
		assert.Equal(t, order.StatusPaid, persisted.Status)
	})

	t.Run("empty confirmation number fails at the boundary", func(t *testing.T) {
		t.Parallel()
		store := order.NewMemoryStore()
		svc := newTestService(t, store)

		o, err := svc.Create(ctx, time.Now())
		require.NoError(t, err)

		_, err = svc.Pay(ctx, o.ID, "")
		assert.ErrorIs(t, err, order.ErrInvalidPayload)

		persisted, err := store.FindByID(ctx, o.ID)
		require.NoError(t, err)
		assert.Equal(t, order.StatusSubmitted, persisted.Status)
	})

	t.Run("unknown order id", func(t *testing.T) {
		t.Parallel()
		svc := newTestService(t, order.NewMemoryStore())

		_, err := svc.Pay(ctx, 404, "X")
		assert.ErrorIs(t, err, order.ErrOrderNotFound)
	})

	t.Run("non-positive order id is a missing identifier", func(t *testing.T) {
		t.Parallel()
		svc := newTestService(t, order.NewMemoryStore())

		_, err := svc.Pay(ctx, 0, "X")
		assert.ErrorIs(t, err, order.ErrMissingIdentifier)
	})
}

func TestServiceFulfill(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("paid order becomes fulfilled and stays there", func(t *testing.T) {
		t.Parallel()
		store := order.NewMemoryStore()
		svc := newTestService(t, store)

		o, err := svc.Create(ctx, time.Now())
		require.NoError(t, err)
		_, err = svc.Pay(ctx, o.ID, "X")
		require.NoError(t, err)

		status, err := svc.Fulfill(ctx, o.ID, "123 Main St")
		require.NoError(t, err)
		assert.Equal(t, order.StatusFulfilled, status)

		persisted, err := store.FindByID(ctx, o.ID)
		require.NoError(t, err)
		assert.Equal(t, order.StatusFulfilled, persisted.Status)

		// Terminal: every further event is rejected.
		_, err = svc.Pay(ctx, o.ID, "Y")
		assert.True(t, statemachine.IsRejectedError(err), "expected rejection, got %v", err)
		_, err = svc.Cancel(ctx, o.ID)
		assert.True(t, statemachine.IsRejectedError(err), "expected rejection, got %v", err)

		persisted, err = store.FindByID(ctx, o.ID)
		require.NoError(t, err)
		assert.Equal(t, order.StatusFulfilled, persisted.Status)
	})

	t.Run("fulfilling an unpaid order is rejected", func(t *testing.T) {
		t.Parallel()
		store := order.NewMemoryStore()
		svc := newTestService(t, store)

		o, err := svc.Create(ctx, time.Now())
		require.NoError(t, err)

		_, err = svc.Fulfill(ctx, o.ID, "123 Main St")
		assert.True(t, statemachine.IsRejectedError(err), "expected rejection, got %v", err)

		persisted, err := store.FindByID(ctx, o.ID)
		require.NoError(t, err)
		assert.Equal(t, order.StatusSubmitted, persisted.Status)
	})

	t.Run("empty address fails at the boundary", func(t *testing.T) {
		t.Parallel()
		store := order.NewMemoryStore()
		svc := newTestService(t, store)

		o, err := svc.Create(ctx, time.Now())
		require.NoError(t, err)

		_, err = svc.Fulfill(ctx, o.ID, "")
		assert.ErrorIs(t, err, order.ErrInvalidPayload)
	})
}

func TestServiceCancel(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("submitted order can be cancelled", func(t *testing.T) {
		t.Parallel()
		store := order.NewMemoryStore()
		svc := newTestService(t, store)

		o, err := svc.Create(ctx, time.Now())
		require.NoError(t, err)

		status, err := svc.Cancel(ctx, o.ID)
		require.NoError(t, err)
		assert.Equal(t, order.StatusCancelled, status)

		persisted, err := store.FindByID(ctx, o.ID)
		require.NoError(t, err)
		assert.Equal(t, order.StatusCancelled, persisted.Status)

		_, err = svc.Fulfill(ctx, o.ID, "123 Main St")
		assert.True(t, statemachine.IsRejectedError(err), "expected rejection, got %v", err)
	})

	t.Run("paid order can be cancelled", func(t *testing.T) {
		t.Parallel()
		store := order.NewMemoryStore()
		svc := newTestService(t, store)

		o, err := svc.Create(ctx, time.Now())
		require.NoError(t, err)
		_, err = svc.Pay(ctx, o.ID, "X")
		require.NoError(t, err)

		status, err := svc.Cancel(ctx, o.ID)
		require.NoError(t, err)
		assert.Equal(t, order.StatusCancelled, status)
	})
}

func TestServicePersistenceFailure(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := &flakyStore{Store: order.NewMemoryStore()}
	svc := newTestService(t, store)

	o, err := svc.Create(ctx, time.Now())
	require.NoError(t, err)

	store.setFailing(true)

	_, err = svc.Pay(ctx, o.ID, "X")
	require.Error(t, err)
	assert.True(t, statemachine.IsInterceptorError(err), "expected interceptor error, got %v", err)
	assert.ErrorIs(t, err, errStorageDown)

	// The aborted transition left the record untouched.
	persisted, err := store.FindByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, order.StatusSubmitted, persisted.Status)

	// A retry of the identical call succeeds once persistence recovers.
	store.setFailing(false)

	status, err := svc.Pay(ctx, o.ID, "X")
	require.NoError(t, err)
	assert.Equal(t, order.StatusPaid, status)

	persisted, err = store.FindByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, order.StatusPaid, persisted.Status)
}

func TestServiceConcurrentPay(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := order.NewMemoryStore()
	svc := newTestService(t, store)

	o, err := svc.Create(ctx, time.Now())
	require.NoError(t, err)

	const writers = 8
	results := make(chan error, writers)

	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Pay(ctx, o.ID, "X")
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var succeeded, rejected int
	for err := range results {
		switch {
		case err == nil:
			succeeded++
		case statemachine.IsRejectedError(err) || errors.Is(err, order.ErrConcurrentModification):
			rejected++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 1, succeeded, "exactly one concurrent PAY must win")
	assert.Equal(t, writers-1, rejected)

	persisted, err := store.FindByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, order.StatusPaid, persisted.Status)
}

// Writers that bypass the service lock are stopped by the store's
// compare-and-swap: a machine hydrated from stale state cannot commit.
func TestStaleMachineLosesToCAS(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := order.NewMemoryStore()
	svc := newTestService(t, store)

	o, err := svc.Create(ctx, time.Now())
	require.NoError(t, err)

	// A competing writer pays first.
	_, err = svc.Pay(ctx, o.ID, "X")
	require.NoError(t, err)

	// This machine still believes the order is SUBMITTED.
	m := statemachine.NewMachine(order.NewLifecycleGraph(slog.New(slog.NewTextHandler(io.Discard, nil))),
		statemachine.WithInterceptor(order.NewPersistStatusInterceptor(store)),
		statemachine.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	require.NoError(t, m.Reset(order.StatusSubmitted))

	_, err = m.Send(ctx, order.EventPay, order.Payload{OrderID: o.ID, PaymentConfirmationNo: "Y"})
	require.Error(t, err)
	assert.True(t, statemachine.IsInterceptorError(err))
	assert.ErrorIs(t, err, order.ErrConcurrentModification)

	persisted, err := store.FindByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, order.StatusPaid, persisted.Status, "the record must not be double-applied")
}
