package validator

import (
	"time"

	"eventregistry/internal/model"
)

// IsTitleValid reports whether title is non-empty and at most 100 characters.
func IsTitleValid(title string) bool {
	return title != "" && len(title) <= 100
}

// IsDescriptionValid reports whether description is non-empty and at most
// 500 characters.
func IsDescriptionValid(description string) bool {
	return description != "" && len(description) <= 500
}

// IsDateValid reports whether date falls on today or later. Only the
// calendar date in the local clock matters; time-of-day is ignored.
// The zero time is invalid.
func IsDateValid(date time.Time) bool {
	if date.IsZero() {
		return false
	}
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	d := date.In(now.Location())
	day := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, now.Location())
	return !day.Before(today)
}

// IsLocationValid reports whether location is non-empty and at most
// 200 characters.
func IsLocationValid(location string) bool {
	return location != "" && len(location) <= 200
}

// IsMaxAttendeesValid reports whether the capacity is between 1 and 100.
func IsMaxAttendeesValid(maxAttendees int) bool {
	return maxAttendees >= 1 && maxAttendees <= 100
}

// IsEventValid reports whether every event field passes its check.
func IsEventValid(e *model.EventData) bool {
	if e == nil {
		return false
	}
	return IsTitleValid(e.Title) &&
		IsDescriptionValid(e.Description) &&
		IsDateValid(e.Date) &&
		IsLocationValid(e.Location) &&
		IsMaxAttendeesValid(e.MaxAttendees)
}
