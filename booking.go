package sazito

import (
	"context"
	"time"
)

// EventFilters narrows a scheduler event listing. Dates are sent as
// YYYY-MM-DD.
type EventFilters struct {
	PageFilters
	StartDate     time.Time
	EndDate       time.Time
	AvailableOnly bool
}

// Params renders the filters as query parameters.
func (f EventFilters) Params() Params {
	params := f.params()
	if !f.StartDate.IsZero() {
		params["start_date"] = f.StartDate.Format(time.DateOnly)
	}
	if !f.EndDate.IsZero() {
		params["end_date"] = f.EndDate.Format(time.DateOnly)
	}
	if f.AvailableOnly {
		params["available_only"] = true
	}
	return params
}

// CreateBookingInput reserves a seat on a scheduler event.
type CreateBookingInput struct {
	EventEntityID int64  `json:"eventEntityId"`
	Timezone      string `json:"timezone"`
	AttendeeName  string `json:"attendeeName"`
	AttendeeEmail string `json:"attendeeEmail,omitempty"`
	AttendeePhone string `json:"attendeePhone,omitempty"`
}

// BookingService lists scheduler events and manages the user's bookings.
type BookingService struct {
	client *Client
}

// ListEvents returns bookable events.
func (s *BookingService) ListEvents(ctx context.Context, filters EventFilters, opts ...RequestOption) *Response {
	opts = withParams(opts, filters.Params())
	return s.client.Get(ctx, SchedulerEventsAPI, opts...)
}

// GetEvent returns one event by id.
func (s *BookingService) GetEvent(ctx context.Context, id int64, opts ...RequestOption) *Response {
	return s.client.Get(ctx, resourcePath(SchedulerEventsAPI, id), opts...)
}

// CreateBooking books the event for the attendee.
func (s *BookingService) CreateBooking(ctx context.Context, input CreateBookingInput, opts ...RequestOption) *Response {
	return s.client.Post(ctx, SchedulerBookingsAPI, input, opts...)
}

// ListBookings returns the signed-in user's bookings.
func (s *BookingService) ListBookings(ctx context.Context, opts ...RequestOption) *Response {
	return s.client.Get(ctx, SchedulerBookingsAPI, opts...)
}

// CancelBooking cancels one booking. The endpoint takes an empty object.
func (s *BookingService) CancelBooking(ctx context.Context, id int64, opts ...RequestOption) *Response {
	return s.client.Post(ctx, resourcePath(SchedulerBookingsAPI, id)+"/cancel", map[string]any{}, opts...)
}
