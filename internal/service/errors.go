// Package service implements the business rules: event catalog,
// attendee directory, and the registration engine.
package service

import "errors"

// Business-rule failures. The strings double as the API response
// messages, so they keep the wording clients already depend on.
var (
	ErrInvalidEventData    = errors.New("Invalid event data provided.")
	ErrInvalidEventID      = errors.New("Invalid event ID provided.")
	ErrEventNotFound       = errors.New("Event not found")
	ErrCapacityExceeded    = errors.New("Attendees exceed maximum.")
	ErrInvalidAttendeeData = errors.New("Invalid attendee data")
	ErrMissingEmail        = errors.New("Email must be provided")
	ErrMissingPhone        = errors.New("Phone must be provided")
	ErrMissingEventID      = errors.New("Event ID must be provided")
	ErrMissingAttendeeData = errors.New("Attendee data must be provided")
	ErrEventDeleted        = errors.New("Event is deleted")
	ErrEventFull           = errors.New("Event is full")
	ErrAlreadyRegistered   = errors.New("Attendee is already registered for this event")
)
