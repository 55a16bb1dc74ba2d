package service

import (
	"context"
	"errors"
	"fmt"

	"eventregistry/internal/model"
	"eventregistry/internal/repository"
	"eventregistry/internal/validator"
)

// EventService is the event catalog: CRUD plus soft-delete, with
// listings annotated by live registration counts.
type EventService struct {
	events        repository.EventStore
	registrations repository.RegistrationStore
}

// NewEventService constructs an EventService with its stores.
func NewEventService(events repository.EventStore, registrations repository.RegistrationStore) *EventService {
	return &EventService{events: events, registrations: registrations}
}

// Create validates the payload and persists a new event.
func (s *EventService) Create(ctx context.Context, data model.EventData) (*model.Event, error) {
	if !validator.IsEventValid(&data) {
		return nil, ErrInvalidEventData
	}
	return s.events.Create(ctx, data)
}

// List returns all non-deleted events, optionally filtered by a
// case-sensitive title substring, each annotated with its current
// registration count. Counts include registrations made against events
// that were soft-deleted afterwards.
func (s *EventService) List(ctx context.Context, title string) ([]model.EventWithCount, error) {
	events, err := s.events.List(ctx, title)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	counts, err := s.registrations.CountsByEvent(ctx)
	if err != nil {
		return nil, fmt.Errorf("count attendees: %w", err)
	}

	annotated := make([]model.EventWithCount, 0, len(events))
	for _, e := range events {
		annotated = append(annotated, model.EventWithCount{
			Event:          e,
			JoinedAttendee: counts[e.ID],
		})
	}
	return annotated, nil
}

// GetByID returns a single event, deleted or not, or ErrEventNotFound.
func (s *EventService) GetByID(ctx context.Context, id int64) (*model.Event, error) {
	event, err := s.events.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

// SoftDelete marks an event deleted. The record stays retrievable by id
// but disappears from listings and refuses registrations.
func (s *EventService) SoftDelete(ctx context.Context, id int64) (*model.Event, error) {
	event, err := s.events.SetDeleted(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("soft-delete event: %w", err)
	}
	return event, nil
}

// Update validates the payload and replaces all event fields. Shrinking
// MaxAttendees below the current registration count is rejected and
// leaves the stored event unchanged.
func (s *EventService) Update(ctx context.Context, id int64, data model.EventData) (*model.Event, error) {
	if !validator.IsEventValid(&data) {
		return nil, ErrInvalidEventData
	}
	if _, err := s.GetByID(ctx, id); err != nil {
		return nil, err
	}

	joined, err := s.registrations.CountByEvent(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("count attendees: %w", err)
	}
	if joined > data.MaxAttendees {
		return nil, ErrCapacityExceeded
	}

	event, err := s.events.Update(ctx, id, data)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("update event: %w", err)
	}
	return event, nil
}
