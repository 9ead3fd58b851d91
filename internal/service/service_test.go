package service_test

import (
	"context"
	"testing"

	"github.com/aurastudio/booking-api/internal/model"
	"github.com/aurastudio/booking-api/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEventService(f *fakeStore) *service.EventService {
	return service.NewEventService(eventStore{f}, f, bookingStore{f})
}

func validEvent(instructorID string) model.CreateEventRequest {
	return model.CreateEventRequest{
		Title:        "Morning Pilates",
		Date:         "2026-09-15",
		Time:         "09:30",
		Duration:     60,
		InstructorID: instructorID,
		MaxSeats:     10,
	}
}

func TestInstructorService(t *testing.T) {
	t.Parallel()

	f := newFakeStore()
	svc := service.NewInstructorService(f)
	ctx := context.Background()

	t.Run("create trims and stores the name", func(t *testing.T) {
		ins, err := svc.Create(ctx, model.CreateInstructorRequest{Name: "  Maya  "})
		require.NoError(t, err)
		assert.Equal(t, "Maya", ins.Name)
		assert.NotEmpty(t, ins.ID)
	})

	t.Run("empty name rejected", func(t *testing.T) {
		_, err := svc.Create(ctx, model.CreateInstructorRequest{Name: "   "})
		assert.ErrorIs(t, err, model.ErrValidation)
	})

	t.Run("get unknown id", func(t *testing.T) {
		_, err := svc.Get(ctx, "nope")
		assert.ErrorIs(t, err, model.ErrInstructorNotFound)
	})
}

func TestEventService_Create_Validation(t *testing.T) {
	t.Parallel()

	f := newFakeStore()
	f.instructors["ins-1"] = model.Instructor{ID: "ins-1", Name: "Maya"}
	svc := newEventService(f)
	ctx := context.Background()

	t.Run("valid request", func(t *testing.T) {
		event, err := svc.Create(ctx, validEvent("ins-1"))
		require.NoError(t, err)
		assert.Equal(t, "Morning Pilates", event.Title)
		assert.Equal(t, 0, event.Booked)
		assert.NotEmpty(t, event.ID)
	})

	cases := []struct {
		name   string
		mutate func(*model.CreateEventRequest)
	}{
		{"empty title", func(r *model.CreateEventRequest) { r.Title = "  " }},
		{"bad date", func(r *model.CreateEventRequest) { r.Date = "tomorrow" }},
		{"bad time format", func(r *model.CreateEventRequest) { r.Time = "9:30am" }},
		{"duration too short", func(r *model.CreateEventRequest) { r.Duration = 10 }},
		{"duration too long", func(r *model.CreateEventRequest) { r.Duration = 300 }},
		{"duration missing", func(r *model.CreateEventRequest) { r.Duration = 0 }},
		{"missing instructor", func(r *model.CreateEventRequest) { r.InstructorID = "" }},
		{"unknown instructor", func(r *model.CreateEventRequest) { r.InstructorID = "ghost" }},
		{"zero seats", func(r *model.CreateEventRequest) { r.MaxSeats = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validEvent("ins-1")
			tc.mutate(&req)
			_, err := svc.Create(ctx, req)
			assert.ErrorIs(t, err, model.ErrValidation)
		})
	}

	t.Run("duration bounds are inclusive", func(t *testing.T) {
		for _, d := range []int{15, 240} {
			req := validEvent("ins-1")
			req.Duration = d
			_, err := svc.Create(ctx, req)
			assert.NoError(t, err)
		}
	})
}

func TestEventService_ListWithAttendees(t *testing.T) {
	t.Parallel()

	f := newFakeStore()
	f.addEvent("ev-1", 10, 0)
	f.addEvent("ev-2", 10, 0)
	f.events["ev-2"].InstructorID = "ins-2"
	f.bookings["bk-1"] = model.Booking{ID: "bk-1", EventID: "ev-1", Name: "A"}
	f.bookings["bk-2"] = model.Booking{ID: "bk-2", EventID: "ev-1", Name: "B"}
	svc := newEventService(f)
	ctx := context.Background()

	t.Run("attendees and live counts", func(t *testing.T) {
		views, err := svc.ListWithAttendees(ctx, "")
		require.NoError(t, err)
		require.Len(t, views, 2)

		byID := map[string]model.EventWithAttendees{}
		for _, v := range views {
			byID[v.ID] = v
		}
		assert.Len(t, byID["ev-1"].Attendees, 2)
		assert.Equal(t, 2, byID["ev-1"].Booked)
		assert.NotNil(t, byID["ev-2"].Attendees, "empty attendee list, not null")
		assert.Equal(t, 0, byID["ev-2"].Booked)
	})

	t.Run("instructor filter", func(t *testing.T) {
		views, err := svc.ListWithAttendees(ctx, "ins-2")
		require.NoError(t, err)
		require.Len(t, views, 1)
		assert.Equal(t, "ev-2", views[0].ID)
	})

	t.Run("booked reflects live rows, not the stored counter", func(t *testing.T) {
		// Simulate counter drift: the stored counter claims 7, but only two
		// booking rows exist. The view must report ground truth.
		f.mu.Lock()
		f.events["ev-1"].Booked = 7
		f.mu.Unlock()

		views, err := svc.ListWithAttendees(ctx, "")
		require.NoError(t, err)
		for _, v := range views {
			if v.ID == "ev-1" {
				assert.Equal(t, 2, v.Booked)
			}
		}
	})
}
