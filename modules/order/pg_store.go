package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/orderflow/pkg/pg"
)

// PGStore implements Store on PostgreSQL via pgx. The schema lives in the
// embedded migrations (see migrations.go).
type PGStore struct {
	pool *pgxpool.Pool
}

// NewPGStore creates a Postgres-backed order store.
func NewPGStore(pool *pgxpool.Pool) (*PGStore, error) {
	if pool == nil {
		return nil, errors.New("pgxpool cannot be nil")
	}
	return &PGStore{pool: pool}, nil
}

// FindByID implements Store.
func (s *PGStore) FindByID(ctx context.Context, id int64) (Order, error) {
	var (
		o   Order
		raw string
	)
	err := s.pool.QueryRow(ctx,
		`SELECT id, order_date, state FROM orders WHERE id = $1`,
		id,
	).Scan(&o.ID, &o.OrderDate, &raw)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return Order{}, ErrOrderNotFound
		}
		return Order{}, fmt.Errorf("find order %d: %w", id, err)
	}

	status, err := ParseStatus(raw)
	if err != nil {
		return Order{}, fmt.Errorf("order %d: %w", id, err)
	}
	o.Status = status

	return o, nil
}

// Save implements Store. A zero id inserts a new record and returns the
// store-assigned id; a non-zero id updates the existing record.
func (s *PGStore) Save(ctx context.Context, o Order) (Order, error) {
	if o.ID == 0 {
		err := s.pool.QueryRow(ctx,
			`INSERT INTO orders (order_date, state) VALUES ($1, $2) RETURNING id`,
			o.OrderDate, string(o.Status),
		).Scan(&o.ID)
		if err != nil {
			return Order{}, fmt.Errorf("insert order: %w", err)
		}
		return o, nil
	}

	tag, err := s.pool.Exec(ctx,
		`UPDATE orders SET order_date = $2, state = $3 WHERE id = $1`,
		o.ID, o.OrderDate, string(o.Status),
	)
	if err != nil {
		return Order{}, fmt.Errorf("update order %d: %w", o.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return Order{}, ErrOrderNotFound
	}

	return o, nil
}

// UpdateState implements Store. The WHERE clause compares the current
// persisted status, so of two concurrent writers deciding against the same
// source status only the first can match; the second gets
// ErrConcurrentModification and must reload.
func (s *PGStore) UpdateState(ctx context.Context, id int64, from, to Status) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE orders SET state = $3 WHERE id = $1 AND state = $2`,
		id, string(from), string(to),
	)
	if err != nil {
		return fmt.Errorf("update order %d state: %w", id, err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	// Distinguish a lost race from a missing record.
	var exists bool
	if err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM orders WHERE id = $1)`,
		id,
	).Scan(&exists); err != nil {
		return fmt.Errorf("check order %d: %w", id, err)
	}
	if !exists {
		return ErrOrderNotFound
	}
	return ErrConcurrentModification
}
