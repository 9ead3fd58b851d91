package model

import "errors"

// Sentinel errors shared across the repository, ledger, and service layers.
// Validation failures wrap ErrValidation with a descriptive reason so the
// HTTP layer can map them with errors.Is while keeping the message.
var (
	ErrValidation         = errors.New("validation failed")
	ErrInstructorNotFound = errors.New("instructor not found")
	ErrEventNotFound      = errors.New("event not found")
	ErrBookingNotFound    = errors.New("booking not found")
	ErrEventFull          = errors.New("event is fully booked")
)
