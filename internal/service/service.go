// Package service implements business logic, validation, and orchestration
// between HTTP handlers, the repository layer, and the capacity ledger.
package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/aurastudio/booking-api/internal/model"
)

// InstructorStore is the persistence surface the services need for
// instructors. Implemented by repository.InstructorRepository.
type InstructorStore interface {
	Create(ctx context.Context, name string) (*model.Instructor, error)
	List(ctx context.Context) ([]model.Instructor, error)
	GetByID(ctx context.Context, id string) (*model.Instructor, error)
}

// EventStore is the persistence surface for events.
// Implemented by repository.EventRepository.
type EventStore interface {
	Create(ctx context.Context, e *model.Event) (*model.Event, error)
	GetByID(ctx context.Context, id string) (*model.Event, error)
	List(ctx context.Context, instructorID string) ([]model.Event, error)
}

// BookingStore is the persistence surface for bookings.
// Implemented by repository.BookingRepository.
type BookingStore interface {
	Create(ctx context.Context, b *model.Booking) (*model.Booking, error)
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	Delete(ctx context.Context, id string) error
	ListByEvent(ctx context.Context, eventID string) ([]model.Booking, error)
	ListByEvents(ctx context.Context, eventIDs []string) (map[string][]model.Booking, error)
}

// CapacityLedger is the atomic reserve/release contract for event seats.
// Implemented by ledger.PostgresLedger.
type CapacityLedger interface {
	TryReserve(ctx context.Context, eventID string) error
	Release(ctx context.Context, eventID string) error
}

// InstructorService handles instructor lookup data.
type InstructorService struct {
	instructors InstructorStore
}

// NewInstructorService constructs an InstructorService.
func NewInstructorService(instructors InstructorStore) *InstructorService {
	return &InstructorService{instructors: instructors}
}

// Create validates the name and delegates to the store.
func (s *InstructorService) Create(ctx context.Context, req model.CreateInstructorRequest) (*model.Instructor, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", model.ErrValidation)
	}
	return s.instructors.Create(ctx, name)
}

// List returns all instructors ordered by name.
func (s *InstructorService) List(ctx context.Context) ([]model.Instructor, error) {
	return s.instructors.List(ctx)
}

// Get returns a single instructor by ID.
func (s *InstructorService) Get(ctx context.Context, id string) (*model.Instructor, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: instructor id is required", model.ErrValidation)
	}
	return s.instructors.GetByID(ctx, id)
}

// EventService orchestrates event publication and listing.
type EventService struct {
	events      EventStore
	instructors InstructorStore
	bookings    BookingStore
}

// NewEventService constructs an EventService with its dependencies.
func NewEventService(events EventStore, instructors InstructorStore, bookings BookingStore) *EventService {
	return &EventService{events: events, instructors: instructors, bookings: bookings}
}

var timePattern = regexp.MustCompile(`^\d{2}:\d{2}$`)

const (
	minDuration = 15
	maxDuration = 240
)

// Create validates the request and publishes a new event.
func (s *EventService) Create(ctx context.Context, req model.CreateEventRequest) (*model.Event, error) {
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return nil, fmt.Errorf("%w: title is required", model.ErrValidation)
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: valid date is required", model.ErrValidation)
	}
	if !timePattern.MatchString(req.Time) {
		return nil, fmt.Errorf("%w: time must be in HH:MM format", model.ErrValidation)
	}
	if req.Duration < minDuration || req.Duration > maxDuration {
		return nil, fmt.Errorf("%w: duration must be between %d and %d minutes", model.ErrValidation, minDuration, maxDuration)
	}
	if req.InstructorID == "" {
		return nil, fmt.Errorf("%w: instructor is required", model.ErrValidation)
	}
	if req.MaxSeats < 1 {
		return nil, fmt.Errorf("%w: maximum seats must be at least 1", model.ErrValidation)
	}

	if _, err := s.instructors.GetByID(ctx, req.InstructorID); err != nil {
		if err == model.ErrInstructorNotFound {
			return nil, fmt.Errorf("%w: instructor not found", model.ErrValidation)
		}
		return nil, fmt.Errorf("resolve instructor: %w", err)
	}

	return s.events.Create(ctx, &model.Event{
		Title:        req.Title,
		Date:         date,
		Time:         req.Time,
		Duration:     req.Duration,
		InstructorID: req.InstructorID,
		MaxSeats:     req.MaxSeats,
	})
}

// Get returns a single event with its resolved instructor.
func (s *EventService) Get(ctx context.Context, id string) (*model.Event, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: event id is required", model.ErrValidation)
	}
	return s.events.GetByID(ctx, id)
}

// ListWithAttendees returns events (optionally filtered by instructor)
// augmented with their attendee lists. The booked count on each event is
// recomputed from the live booking rows rather than taken from the stored
// counter, so this view doubles as a reconciliation pass that exposes any
// counter drift.
func (s *EventService) ListWithAttendees(ctx context.Context, instructorID string) ([]model.EventWithAttendees, error) {
	events, err := s.events.List(ctx, instructorID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(events))
	for _, e := range events {
		ids = append(ids, e.ID)
	}
	grouped, err := s.bookings.ListByEvents(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]model.EventWithAttendees, 0, len(events))
	for _, e := range events {
		attendees := grouped[e.ID]
		if attendees == nil {
			attendees = []model.Booking{}
		}
		e.Booked = len(attendees)
		out = append(out, model.EventWithAttendees{Event: e, Attendees: attendees})
	}
	return out, nil
}
