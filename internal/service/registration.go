package service

import (
	"context"
	"errors"
	"fmt"

	"eventregistry/internal/metrics"
	"eventregistry/internal/model"
	"eventregistry/internal/repository"
)

// RegistrationService is the registration engine. A registration attempt
// moves through ordered gates: input, event existence and deleted flag,
// capacity, attendee identity, duplicate check, commit. The early gates
// fast-fail with precise errors; the commit re-checks capacity and
// uniqueness inside the store transaction, so no interleaving of
// concurrent attempts can overrun MaxAttendees or duplicate a
// (event, attendee) pair.
type RegistrationService struct {
	events        repository.EventStore
	attendees     *AttendeeService
	registrations repository.RegistrationStore
	metrics       *metrics.Metrics
}

// NewRegistrationService constructs a RegistrationService with its
// collaborators.
func NewRegistrationService(
	events repository.EventStore,
	attendees *AttendeeService,
	registrations repository.RegistrationStore,
	m *metrics.Metrics,
) *RegistrationService {
	return &RegistrationService{
		events:        events,
		attendees:     attendees,
		registrations: registrations,
		metrics:       m,
	}
}

// Register registers an attendee for an event. The attendee is resolved
// by email: an existing record is reused as-is and the rest of the
// payload is ignored, otherwise the payload is validated and a new
// attendee is created. Attendee creation is not rolled back when a later
// gate fails; the record is idempotent by email and reused on retry.
func (s *RegistrationService) Register(ctx context.Context, eventID int64, data *model.AttendeeData) (*model.Registration, error) {
	reg, err := s.register(ctx, eventID, data)
	s.metrics.ObserveRegistration(outcome(err))
	return reg, err
}

func (s *RegistrationService) register(ctx context.Context, eventID int64, data *model.AttendeeData) (*model.Registration, error) {
	if eventID == 0 {
		return nil, ErrMissingEventID
	}
	if data == nil {
		return nil, ErrMissingAttendeeData
	}

	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event.Deleted {
		return nil, ErrEventDeleted
	}

	// Fast-fail before touching the attendee table. The commit below
	// re-checks under the event row lock, so this pre-check carries no
	// correctness weight.
	count, err := s.registrations.CountByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("count registrations: %w", err)
	}
	if count >= event.MaxAttendees {
		return nil, ErrEventFull
	}

	attendee, err := s.resolveAttendee(ctx, data)
	if err != nil {
		return nil, err
	}

	if _, err := s.registrations.FindByEventAndAttendee(ctx, eventID, attendee.ID); err == nil {
		return nil, ErrAlreadyRegistered
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("check existing registration: %w", err)
	}

	reg, err := s.registrations.Register(ctx, eventID, attendee.ID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrEventNotFound
		case errors.Is(err, repository.ErrEventDeleted):
			return nil, ErrEventDeleted
		case errors.Is(err, repository.ErrEventFull):
			return nil, ErrEventFull
		case errors.Is(err, repository.ErrAlreadyRegistered):
			return nil, ErrAlreadyRegistered
		}
		return nil, fmt.Errorf("register attendee: %w", err)
	}
	return reg, nil
}

// resolveAttendee finds the attendee by email or creates one. When the
// create loses a race against a concurrent registration with the same
// email, the winner's record is fetched and reused.
func (s *RegistrationService) resolveAttendee(ctx context.Context, data *model.AttendeeData) (*model.Attendee, error) {
	attendee, err := s.attendees.FindByEmail(ctx, data.Email)
	if err != nil {
		return nil, err
	}
	if attendee != nil {
		return attendee, nil
	}

	attendee, err = s.attendees.Create(ctx, *data)
	if err == nil {
		return attendee, nil
	}
	if !errors.Is(err, repository.ErrDuplicateAttendee) {
		return nil, err
	}
	attendee, findErr := s.attendees.FindByEmail(ctx, data.Email)
	if findErr != nil {
		return nil, findErr
	}
	if attendee == nil {
		// The collision was on the phone column, held by another email.
		return nil, err
	}
	return attendee, nil
}

// EventAttendeeCounts returns the registration count per event, grouped
// over all registrations. Events that were soft-deleted after gaining
// registrations are still represented.
func (s *RegistrationService) EventAttendeeCounts(ctx context.Context) (map[int64]int, error) {
	counts, err := s.registrations.CountsByEvent(ctx)
	if err != nil {
		return nil, fmt.Errorf("group registrations: %w", err)
	}
	return counts, nil
}

func outcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeRegistered
	case errors.Is(err, ErrEventFull):
		return metrics.OutcomeEventFull
	case errors.Is(err, ErrAlreadyRegistered):
		return metrics.OutcomeAlreadyRegistered
	case errors.Is(err, ErrMissingEventID),
		errors.Is(err, ErrMissingAttendeeData),
		errors.Is(err, ErrMissingEmail),
		errors.Is(err, ErrInvalidAttendeeData),
		errors.Is(err, ErrEventNotFound),
		errors.Is(err, ErrEventDeleted),
		errors.Is(err, repository.ErrDuplicateAttendee):
		return metrics.OutcomeRejected
	default:
		return metrics.OutcomeError
	}
}
