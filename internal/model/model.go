// Package model defines the core domain types for the session booking system.
package model

import "time"

// Instructor is the person running a session. Pure lookup data.
type Instructor struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Event represents a time-boxed session published by an organizer.
type Event struct {
	ID           string      `json:"id"`
	Title        string      `json:"title"`
	Date         time.Time   `json:"date"`
	Time         string      `json:"time"`     // HH:MM
	Duration     int         `json:"duration"` // minutes
	InstructorID string      `json:"instructor_id"`
	Instructor   *Instructor `json:"instructor,omitempty"`
	MaxSeats     int         `json:"max_seats"`
	Booked       int         `json:"booked"`
	CreatedAt    time.Time   `json:"created_at"`
}

// Remaining returns the number of available seats.
func (e *Event) Remaining() int {
	return e.MaxSeats - e.Booked
}

// IsFull returns true when no seats remain.
func (e *Event) IsFull() bool {
	return e.Booked >= e.MaxSeats
}

// EventWithAttendees is the listing view: an event plus its live bookings.
// Booked on the embedded event is recomputed from the booking rows, not read
// from the stored counter, so the view stays accurate if the counter drifts.
type EventWithAttendees struct {
	Event
	Attendees []Booking `json:"attendees"`
}

// Booking represents one claimed seat. Immutable except for deletion.
type Booking struct {
	ID          string    `json:"id"`
	EventID     string    `json:"event_id"`
	Name        string    `json:"name"`
	CountryCode string    `json:"country_code"`
	Phone       string    `json:"phone"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateInstructorRequest is the payload for creating an instructor.
type CreateInstructorRequest struct {
	Name string `json:"name"`
}

// CreateEventRequest is the payload for publishing a new event.
type CreateEventRequest struct {
	Title        string `json:"title"`
	Date         string `json:"date"` // YYYY-MM-DD
	Time         string `json:"time"` // HH:MM
	Duration     int    `json:"duration"`
	InstructorID string `json:"instructor"`
	MaxSeats     int    `json:"max_seats"`
}

// CreateBookingRequest is the payload for reserving a seat.
type CreateBookingRequest struct {
	EventID     string `json:"event"`
	Name        string `json:"name"`
	CountryCode string `json:"country_code"`
	Phone       string `json:"phone"`
}

// ErrorResponse is a standard JSON error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
}
