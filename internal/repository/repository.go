// Package repository implements all database queries for the session booking
// system. It uses pgx directly (no ORM) for transparency and performance.
//
// Capacity is deliberately absent here: the events.booked counter is only
// ever written by the ledger package.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aurastudio/booking-api/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// InstructorRepository handles persistence for instructors.
type InstructorRepository struct {
	db *pgxpool.Pool
}

// NewInstructorRepository constructs an InstructorRepository.
func NewInstructorRepository(db *pgxpool.Pool) *InstructorRepository {
	return &InstructorRepository{db: db}
}

// Create inserts a new instructor and returns it with a generated UUID.
func (r *InstructorRepository) Create(ctx context.Context, name string) (*model.Instructor, error) {
	ins := &model.Instructor{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	_, err := r.db.Exec(ctx,
		`INSERT INTO instructors (id, name, created_at) VALUES ($1, $2, $3)`,
		ins.ID, ins.Name, ins.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert instructor: %w", err)
	}
	return ins, nil
}

// List returns all instructors ordered by name.
func (r *InstructorRepository) List(ctx context.Context) ([]model.Instructor, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, created_at FROM instructors ORDER BY name ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list instructors: %w", err)
	}
	defer rows.Close()

	var instructors []model.Instructor
	for rows.Next() {
		var ins model.Instructor
		if err := rows.Scan(&ins.ID, &ins.Name, &ins.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan instructor: %w", err)
		}
		instructors = append(instructors, ins)
	}
	return instructors, rows.Err()
}

// GetByID returns a single instructor or model.ErrInstructorNotFound.
func (r *InstructorRepository) GetByID(ctx context.Context, id string) (*model.Instructor, error) {
	var ins model.Instructor
	err := r.db.QueryRow(ctx,
		`SELECT id, name, created_at FROM instructors WHERE id = $1`,
		id,
	).Scan(&ins.ID, &ins.Name, &ins.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrInstructorNotFound
		}
		return nil, fmt.Errorf("get instructor: %w", err)
	}
	return &ins, nil
}

// EventRepository handles persistence for events.
type EventRepository struct {
	db *pgxpool.Pool
}

// NewEventRepository constructs an EventRepository.
func NewEventRepository(db *pgxpool.Pool) *EventRepository {
	return &EventRepository{db: db}
}

const eventColumns = `e.id, e.title, e.date, e.time, e.duration, e.instructor_id,
	e.max_seats, e.booked, e.created_at,
	i.id, i.name, i.created_at`

func scanEvent(row pgx.Row) (*model.Event, error) {
	var e model.Event
	var ins model.Instructor
	err := row.Scan(
		&e.ID, &e.Title, &e.Date, &e.Time, &e.Duration, &e.InstructorID,
		&e.MaxSeats, &e.Booked, &e.CreatedAt,
		&ins.ID, &ins.Name, &ins.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	e.Instructor = &ins
	return &e, nil
}

// Create inserts a new event (booked starts at zero) and returns it with a
// generated UUID and its resolved instructor.
func (r *EventRepository) Create(ctx context.Context, e *model.Event) (*model.Event, error) {
	e.ID = uuid.New().String()
	e.Booked = 0
	e.CreatedAt = time.Now().UTC()

	_, err := r.db.Exec(ctx,
		`INSERT INTO events (id, title, date, time, duration, instructor_id, max_seats, booked, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		e.ID, e.Title, e.Date, e.Time, e.Duration, e.InstructorID, e.MaxSeats, e.Booked, e.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert event: %w", err)
	}
	return r.GetByID(ctx, e.ID)
}

// GetByID returns a single event with its resolved instructor, or
// model.ErrEventNotFound.
func (r *EventRepository) GetByID(ctx context.Context, id string) (*model.Event, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+eventColumns+`
		 FROM events e
		 JOIN instructors i ON i.id = e.instructor_id
		 WHERE e.id = $1`,
		id,
	)
	e, err := scanEvent(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrEventNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return e, nil
}

// List returns events with resolved instructors, optionally filtered by
// instructor id, ordered by date then time.
func (r *EventRepository) List(ctx context.Context, instructorID string) ([]model.Event, error) {
	query := `SELECT ` + eventColumns + `
		 FROM events e
		 JOIN instructors i ON i.id = e.instructor_id`
	args := []any{}
	if instructorID != "" {
		query += ` WHERE e.instructor_id = $1`
		args = append(args, instructorID)
	}
	query += ` ORDER BY e.date ASC, e.time ASC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, *e)
	}
	return events, rows.Err()
}

// BookingRepository handles persistence for bookings.
type BookingRepository struct {
	db *pgxpool.Pool
}

// NewBookingRepository constructs a BookingRepository.
func NewBookingRepository(db *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{db: db}
}

// Create inserts a new booking and returns it with a generated UUID.
func (r *BookingRepository) Create(ctx context.Context, b *model.Booking) (*model.Booking, error) {
	b.ID = uuid.New().String()
	b.CreatedAt = time.Now().UTC()

	_, err := r.db.Exec(ctx,
		`INSERT INTO bookings (id, event_id, name, country_code, phone, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		b.ID, b.EventID, b.Name, b.CountryCode, b.Phone, b.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert booking: %w", err)
	}
	return b, nil
}

// GetByID returns a single booking or model.ErrBookingNotFound.
func (r *BookingRepository) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	var b model.Booking
	err := r.db.QueryRow(ctx,
		`SELECT id, event_id, name, country_code, phone, created_at
		 FROM bookings WHERE id = $1`,
		id,
	).Scan(&b.ID, &b.EventID, &b.Name, &b.CountryCode, &b.Phone, &b.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrBookingNotFound
		}
		return nil, fmt.Errorf("get booking: %w", err)
	}
	return &b, nil
}

// Delete removes a booking, returning model.ErrBookingNotFound when absent.
func (r *BookingRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete booking: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrBookingNotFound
	}
	return nil
}

// ListByEvent returns all bookings for an event, most recent first.
func (r *BookingRepository) ListByEvent(ctx context.Context, eventID string) ([]model.Booking, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, event_id, name, country_code, phone, created_at
		 FROM bookings
		 WHERE event_id = $1
		 ORDER BY created_at DESC`,
		eventID,
	)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	var bookings []model.Booking
	for rows.Next() {
		var b model.Booking
		if err := rows.Scan(&b.ID, &b.EventID, &b.Name, &b.CountryCode, &b.Phone, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

// ListByEvents returns the live bookings for a set of events, grouped by
// event id. Used by the listing view to recount booked seats from the
// actual rows instead of trusting the stored counter.
func (r *BookingRepository) ListByEvents(ctx context.Context, eventIDs []string) (map[string][]model.Booking, error) {
	grouped := make(map[string][]model.Booking, len(eventIDs))
	if len(eventIDs) == 0 {
		return grouped, nil
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, event_id, name, country_code, phone, created_at
		 FROM bookings
		 WHERE event_id = ANY($1::uuid[])
		 ORDER BY created_at DESC`,
		eventIDs,
	)
	if err != nil {
		return nil, fmt.Errorf("list bookings by events: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var b model.Booking
		if err := rows.Scan(&b.ID, &b.EventID, &b.Name, &b.CountryCode, &b.Phone, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		grouped[b.EventID] = append(grouped[b.EventID], b)
	}
	return grouped, rows.Err()
}
