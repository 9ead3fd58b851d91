// Package ledger owns the invariant "booked count never exceeds capacity"
// for every event. It is the sole mutator of the events.booked counter;
// nothing else in the codebase may read-modify-write it.
package ledger

import (
	"context"
	"fmt"

	"github.com/aurastudio/booking-api/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresLedger implements the reserve/release contract with single-statement
// conditional updates. The check ("is there room?") and the act ("take a
// seat") happen inside one UPDATE, so the row lock Postgres takes for the
// write serialises concurrent callers per event. Rows for different events
// never block each other, and the approach stays correct when several
// service instances share the database.
type PostgresLedger struct {
	db *pgxpool.Pool
}

// NewPostgresLedger constructs a PostgresLedger.
func NewPostgresLedger(db *pgxpool.Pool) *PostgresLedger {
	return &PostgresLedger{db: db}
}

// TryReserve atomically claims one seat. It returns nil when the seat was
// granted, model.ErrEventFull when the event has no remaining capacity, and
// model.ErrEventNotFound when the event does not exist. Two concurrent
// callers racing for the last seat get exactly one grant.
func (l *PostgresLedger) TryReserve(ctx context.Context, eventID string) error {
	tag, err := l.db.Exec(ctx,
		`UPDATE events
		 SET booked = booked + 1
		 WHERE id = $1 AND booked < max_seats`,
		eventID,
	)
	if err != nil {
		return fmt.Errorf("reserve seat: %w", err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	// No row updated: either the event is full or it does not exist.
	var exists bool
	err = l.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM events WHERE id = $1)`,
		eventID,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check event: %w", err)
	}
	if !exists {
		return model.ErrEventNotFound
	}
	return model.ErrEventFull
}

// Release frees one previously claimed seat. The counter is clamped at zero:
// releasing an event with no active bookings is a successful no-op, never a
// negative count. Returns model.ErrEventNotFound when the event is absent;
// cancellation callers may treat that as already released.
func (l *PostgresLedger) Release(ctx context.Context, eventID string) error {
	tag, err := l.db.Exec(ctx,
		`UPDATE events
		 SET booked = GREATEST(booked - 1, 0)
		 WHERE id = $1`,
		eventID,
	)
	if err != nil {
		return fmt.Errorf("release seat: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrEventNotFound
	}
	return nil
}
