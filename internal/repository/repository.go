// Package repository defines the store contracts the services depend on,
// together with their PostgreSQL and in-memory implementations.
package repository

import (
	"context"
	"errors"

	"eventregistry/internal/model"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// ErrEventDeleted is returned when registering against a soft-deleted event.
var ErrEventDeleted = errors.New("event is deleted")

// ErrEventFull is returned when an event has no remaining capacity.
var ErrEventFull = errors.New("event is full")

// ErrAlreadyRegistered is returned when an attendee registers twice for
// the same event.
var ErrAlreadyRegistered = errors.New("attendee is already registered for this event")

// ErrDuplicateAttendee is returned when an attendee insert collides with
// the unique email or phone constraint.
var ErrDuplicateAttendee = errors.New("attendee with this email or phone already exists")

// EventStore persists events. Events are never physically deleted;
// SetDeleted flips the soft-delete flag.
type EventStore interface {
	Create(ctx context.Context, data model.EventData) (*model.Event, error)
	// List returns non-deleted events, newest first. A non-empty title
	// narrows the result to case-sensitive substring matches.
	List(ctx context.Context, title string) ([]model.Event, error)
	GetByID(ctx context.Context, id int64) (*model.Event, error)
	Update(ctx context.Context, id int64, data model.EventData) (*model.Event, error)
	SetDeleted(ctx context.Context, id int64) (*model.Event, error)
}

// AttendeeStore persists attendees. Email and phone are unique.
type AttendeeStore interface {
	Create(ctx context.Context, data model.AttendeeData) (*model.Attendee, error)
	FindByEmail(ctx context.Context, email string) (*model.Attendee, error)
	FindByPhone(ctx context.Context, phone string) (*model.Attendee, error)
}

// RegistrationStore persists registrations and owns the concurrency-safe
// commit path.
type RegistrationStore interface {
	// Register atomically re-checks event existence, deleted flag,
	// capacity, and (event, attendee) uniqueness before inserting.
	// Concurrent calls for the same event serialize; the capacity
	// ceiling is never overrun.
	Register(ctx context.Context, eventID int64, attendeeID string) (*model.Registration, error)
	FindByEventAndAttendee(ctx context.Context, eventID int64, attendeeID string) (*model.Registration, error)
	CountByEvent(ctx context.Context, eventID int64) (int, error)
	// CountsByEvent groups registration counts by event over all
	// registrations, including those of soft-deleted events.
	CountsByEvent(ctx context.Context) (map[int64]int, error)
}
