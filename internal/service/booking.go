package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aurastudio/booking-api/internal/model"
	"go.uber.org/zap"
)

// BookingService translates booking and cancellation intents into ledger
// calls plus booking-record persistence.
type BookingService struct {
	events   EventStore
	bookings BookingStore
	ledger   CapacityLedger
	log      *zap.Logger
}

// NewBookingService constructs a BookingService with its dependencies.
func NewBookingService(events EventStore, bookings BookingStore, ledger CapacityLedger, log *zap.Logger) *BookingService {
	return &BookingService{events: events, bookings: bookings, ledger: ledger, log: log}
}

// Create reserves a seat and persists the booking record. The seat is
// claimed through the ledger before the record is written; when the write
// fails the reservation is released again so the seat is never leaked.
// On success it returns the updated event view including the new booked
// count so clients can render remaining capacity without a second call.
func (s *BookingService) Create(ctx context.Context, req model.CreateBookingRequest) (*model.Event, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.CountryCode = strings.TrimSpace(req.CountryCode)
	req.Phone = strings.TrimSpace(req.Phone)
	if req.Name == "" || req.CountryCode == "" || req.Phone == "" {
		return nil, fmt.Errorf("%w: name, country code and phone are required", model.ErrValidation)
	}
	if req.EventID == "" {
		return nil, fmt.Errorf("%w: event id is required", model.ErrValidation)
	}

	if _, err := s.events.GetByID(ctx, req.EventID); err != nil {
		return nil, err
	}

	if err := s.ledger.TryReserve(ctx, req.EventID); err != nil {
		// ErrEventFull and ErrEventNotFound pass through untouched so the
		// HTTP layer can report them distinctly. Neither is retried: a full
		// event is a business outcome, not a transient fault.
		return nil, err
	}

	booking := &model.Booking{
		EventID:     req.EventID,
		Name:        req.Name,
		CountryCode: req.CountryCode,
		Phone:       req.Phone,
	}
	if _, err := s.bookings.Create(ctx, booking); err != nil {
		s.releaseReservation(ctx, req.EventID)
		return nil, fmt.Errorf("create booking: %w", err)
	}

	return s.events.GetByID(ctx, req.EventID)
}

// CancelResult acknowledges a successful cancellation.
type CancelResult struct {
	Message string `json:"message"`
}

// Cancel deletes a booking and frees its seat. A missing parent event is
// treated as already released rather than an error.
func (s *BookingService) Cancel(ctx context.Context, bookingID string) (*CancelResult, error) {
	if bookingID == "" {
		return nil, fmt.Errorf("%w: booking id is required", model.ErrValidation)
	}

	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if err := s.bookings.Delete(ctx, bookingID); err != nil {
		return nil, err
	}

	if err := s.ledger.Release(ctx, booking.EventID); err != nil && !errors.Is(err, model.ErrEventNotFound) {
		// The booking row is already gone, so the cancellation itself stands.
		// A failed release only leaves the stored counter too high, which the
		// listing view's live recount corrects; retry once, then alarm.
		s.log.Warn("release after cancellation failed, retrying",
			zap.String("event_id", booking.EventID),
			zap.Error(err),
		)
		if err := s.retryRelease(ctx, booking.EventID); err != nil {
			s.log.Error("consistency alarm: seat release failed after cancellation, booked counter is stale",
				zap.String("event_id", booking.EventID),
				zap.String("booking_id", bookingID),
				zap.Error(err),
			)
		}
	}

	return &CancelResult{Message: "Booking deleted successfully"}, nil
}

// ListForEvent returns the bookings for an event, most recent first. Each
// call is a fresh query.
func (s *BookingService) ListForEvent(ctx context.Context, eventID string) ([]model.Booking, error) {
	if eventID == "" {
		return nil, fmt.Errorf("%w: event id is required", model.ErrValidation)
	}
	return s.bookings.ListByEvent(ctx, eventID)
}

// releaseReservation compensates a granted reservation whose booking record
// could not be persisted. It runs detached from the caller's cancellation so
// an aborted request still gives the seat back, and it retries once because
// a leaked seat is the worse failure mode. If compensation ultimately fails
// the stale counter is logged as a consistency alarm; the listing view's
// live recount will expose the drift.
func (s *BookingService) releaseReservation(ctx context.Context, eventID string) {
	ctx = context.WithoutCancel(ctx)
	err := s.ledger.Release(ctx, eventID)
	if err == nil || errors.Is(err, model.ErrEventNotFound) {
		return
	}
	s.log.Warn("compensating release failed, retrying",
		zap.String("event_id", eventID),
		zap.Error(err),
	)
	if err := s.retryRelease(ctx, eventID); err != nil {
		s.log.Error("consistency alarm: compensating release failed, a seat is phantom-held",
			zap.String("event_id", eventID),
			zap.Error(err),
		)
	}
}

func (s *BookingService) retryRelease(ctx context.Context, eventID string) error {
	ctx = context.WithoutCancel(ctx)
	time.Sleep(100 * time.Millisecond)
	err := s.ledger.Release(ctx, eventID)
	if errors.Is(err, model.ErrEventNotFound) {
		return nil
	}
	return err
}
