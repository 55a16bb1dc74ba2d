package service

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"eventregistry/internal/metrics"
	"eventregistry/internal/model"
	"eventregistry/internal/repository"
)

// fixture wires the services over fresh in-memory stores.
type fixture struct {
	events        *repository.MemoryEventStore
	attendees     *repository.MemoryAttendeeStore
	registrations *repository.MemoryRegistrationStore

	eventSvc        *EventService
	attendeeSvc     *AttendeeService
	registrationSvc *RegistrationService
}

func newFixture() *fixture {
	events := repository.NewMemoryEventStore()
	attendees := repository.NewMemoryAttendeeStore()
	registrations := repository.NewMemoryRegistrationStore(events)

	attendeeSvc := NewAttendeeService(attendees)
	m := metrics.New(prometheus.NewRegistry())
	return &fixture{
		events:          events,
		attendees:       attendees,
		registrations:   registrations,
		eventSvc:        NewEventService(events, registrations),
		attendeeSvc:     attendeeSvc,
		registrationSvc: NewRegistrationService(events, attendeeSvc, registrations, m),
	}
}

func validEvent(title string, maxAttendees int) model.EventData {
	return model.EventData{
		Title:        title,
		Description:  "An evening of talks.",
		Date:         time.Now().AddDate(0, 0, 7),
		Location:     "Town Hall",
		MaxAttendees: maxAttendees,
	}
}

func validAttendee(name, email, phone string) *model.AttendeeData {
	return &model.AttendeeData{
		Name:   name,
		Gender: model.GenderFemale,
		Email:  email,
		Phone:  phone,
	}
}
