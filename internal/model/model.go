// Package model defines the core domain types for the event registry.
package model

import "time"

// Event is a bookable event with a hard attendee ceiling.
// Soft-deleted events stay in storage but are hidden from listings
// and closed to registration.
type Event struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Date         time.Time `json:"date"`
	Location     string    `json:"location"`
	MaxAttendees int       `json:"maxAttendees"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
	Deleted      bool      `json:"deleted"`
}

// EventWithCount is an Event annotated with its live registration count,
// as returned by listings.
type EventWithCount struct {
	Event
	JoinedAttendee int `json:"joinedAttendee"`
}

// Attendee is a registered person, deduplicated by email.
// Records are immutable once created.
type Attendee struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Gender string `json:"gender"`
	Email  string `json:"email"`
	Phone  string `json:"phone"`
}

// Gender values accepted by the attendee validator.
const (
	GenderMale   = "MALE"
	GenderFemale = "FEMALE"
)

// Registration links one attendee to one event. At most one registration
// exists per (EventID, AttendeeID) pair.
type Registration struct {
	ID         string    `json:"id"`
	EventID    int64     `json:"eventId"`
	AttendeeID string    `json:"attendeeId"`
	CreatedAt  time.Time `json:"createdAt"`
}

// EventData is the payload for creating or fully replacing an event.
type EventData struct {
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Date         time.Time `json:"date"`
	Location     string    `json:"location"`
	MaxAttendees int       `json:"maxAttendees"`
}

// AttendeeData is the payload for registering an attendee.
type AttendeeData struct {
	Name   string `json:"name"`
	Gender string `json:"gender"`
	Email  string `json:"email"`
	Phone  string `json:"phone"`
}

// ErrorResponse is the standard JSON error envelope.
type ErrorResponse struct {
	Message string `json:"message"`
}
