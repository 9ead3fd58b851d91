// Package handler contains chi HTTP handlers that translate HTTP
// requests/responses to and from the service layer.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aurastudio/booking-api/internal/model"
	"github.com/aurastudio/booking-api/internal/service"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Handler holds all HTTP handlers for the booking API.
type Handler struct {
	instructors *service.InstructorService
	events      *service.EventService
	bookings    *service.BookingService
	log         *zap.Logger
}

// New constructs a Handler.
func New(
	instructors *service.InstructorService,
	events *service.EventService,
	bookings *service.BookingService,
	log *zap.Logger,
) *Handler {
	return &Handler{instructors: instructors, events: events, bookings: bookings, log: log}
}

// Routes mounts all API routes.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/health", HealthCheck)

	r.Route("/api", func(r chi.Router) {
		r.Route("/instructors", func(r chi.Router) {
			r.Get("/", h.ListInstructors)
			r.Post("/", h.CreateInstructor)
			r.Get("/{id}", h.GetInstructor)
		})
		r.Route("/events", func(r chi.Router) {
			r.Get("/", h.ListEvents)
			r.Post("/", h.CreateEvent)
			r.Get("/{id}", h.GetEvent)
			r.Get("/{id}/bookings", h.ListEventBookings)
		})
		r.Route("/bookings", func(r chi.Router) {
			r.Post("/", h.CreateBooking)
			r.Delete("/{id}", h.DeleteBooking)
		})
	})

	return r
}

// ─── Helper utilities ─────────────────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, model.ErrorResponse{Error: msg})
}

func decodeJSON(r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, 1<<20) // 1 MB limit
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// respondError maps service errors onto HTTP statuses. Validation and
// not-found failures keep their descriptive message; a full event gets a
// distinct 409 so clients can branch on it; anything else is an unexpected
// store failure, logged in full and surfaced opaquely.
func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, model.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, model.ErrInstructorNotFound),
		errors.Is(err, model.ErrEventNotFound),
		errors.Is(err, model.ErrBookingNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, model.ErrEventFull):
		writeError(w, http.StatusConflict, "event is fully booked")
	default:
		h.log.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// ─── Instructors ──────────────────────────────────────────────────────────────

// ListInstructors handles GET /api/instructors
func (h *Handler) ListInstructors(w http.ResponseWriter, r *http.Request) {
	instructors, err := h.instructors.List(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	if instructors == nil {
		instructors = []model.Instructor{}
	}
	writeJSON(w, http.StatusOK, instructors)
}

// CreateInstructor handles POST /api/instructors
func (h *Handler) CreateInstructor(w http.ResponseWriter, r *http.Request) {
	var req model.CreateInstructorRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	ins, err := h.instructors.Create(r.Context(), req)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, ins)
}

// GetInstructor handles GET /api/instructors/{id}
func (h *Handler) GetInstructor(w http.ResponseWriter, r *http.Request) {
	ins, err := h.instructors.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ins)
}

// ─── Events ───────────────────────────────────────────────────────────────────

// ListEvents handles GET /api/events?instructor={id}
// Returns events augmented with attendees and a live booked count.
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.events.ListWithAttendees(r.Context(), r.URL.Query().Get("instructor"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

// CreateEvent handles POST /api/events
func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req model.CreateEventRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	event, err := h.events.Create(r.Context(), req)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, event)
}

// GetEvent handles GET /api/events/{id}
func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	event, err := h.events.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, event)
}

// ListEventBookings handles GET /api/events/{id}/bookings
// Returns bookings for the event, most recent first.
func (h *Handler) ListEventBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.bookings.ListForEvent(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	if bookings == nil {
		bookings = []model.Booking{}
	}
	writeJSON(w, http.StatusOK, bookings)
}

// ─── Bookings ─────────────────────────────────────────────────────────────────

// CreateBooking handles POST /api/bookings
// Reserves a seat and returns the updated event with its new booked count.
func (h *Handler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req model.CreateBookingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	event, err := h.bookings.Create(r.Context(), req)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, event)
}

// DeleteBooking handles DELETE /api/bookings/{id}
func (h *Handler) DeleteBooking(w http.ResponseWriter, r *http.Request) {
	result, err := h.bookings.Cancel(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// ─── Health check ─────────────────────────────────────────────────────────────

// HealthCheck handles GET /health
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
