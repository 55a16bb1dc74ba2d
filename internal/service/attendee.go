package service

import (
	"context"
	"errors"
	"fmt"

	"eventregistry/internal/model"
	"eventregistry/internal/repository"
	"eventregistry/internal/validator"
)

// AttendeeService is the attendee directory: lookup by email or phone
// and validated creation. Attendees are immutable once created.
type AttendeeService struct {
	attendees repository.AttendeeStore
}

// NewAttendeeService constructs an AttendeeService with its store.
func NewAttendeeService(attendees repository.AttendeeStore) *AttendeeService {
	return &AttendeeService{attendees: attendees}
}

// FindByEmail returns the attendee with the given email, or (nil, nil)
// when no such attendee exists.
func (s *AttendeeService) FindByEmail(ctx context.Context, email string) (*model.Attendee, error) {
	if email == "" {
		return nil, ErrMissingEmail
	}
	attendee, err := s.attendees.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("find attendee by email: %w", err)
	}
	return attendee, nil
}

// FindByPhone returns the attendee with the given phone, or (nil, nil)
// when no such attendee exists.
func (s *AttendeeService) FindByPhone(ctx context.Context, phone string) (*model.Attendee, error) {
	if phone == "" {
		return nil, ErrMissingPhone
	}
	attendee, err := s.attendees.FindByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("find attendee by phone: %w", err)
	}
	return attendee, nil
}

// Create validates the payload and persists a new attendee. A collision
// on the unique email or phone columns surfaces as
// repository.ErrDuplicateAttendee for the caller to resolve.
func (s *AttendeeService) Create(ctx context.Context, data model.AttendeeData) (*model.Attendee, error) {
	if !validator.IsAttendeeValid(&data) {
		return nil, ErrInvalidAttendeeData
	}
	attendee, err := s.attendees.Create(ctx, data)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateAttendee) {
			return nil, err
		}
		return nil, fmt.Errorf("create attendee: %w", err)
	}
	return attendee, nil
}
