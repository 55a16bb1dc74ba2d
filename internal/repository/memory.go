package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"eventregistry/internal/model"
)

// MemoryEventStore is a mutex-guarded in-memory EventStore. Used by the
// test suites and for running the service without PostgreSQL.
type MemoryEventStore struct {
	mu     sync.RWMutex
	nextID int64
	events map[int64]model.Event
}

// NewMemoryEventStore constructs an empty MemoryEventStore.
func NewMemoryEventStore() *MemoryEventStore {
	return &MemoryEventStore{nextID: 1, events: make(map[int64]model.Event)}
}

func (s *MemoryEventStore) Create(ctx context.Context, data model.EventData) (*model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	e := model.Event{
		ID:           s.nextID,
		Title:        data.Title,
		Description:  data.Description,
		Date:         data.Date,
		Location:     data.Location,
		MaxAttendees: data.MaxAttendees,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.nextID++
	s.events[e.ID] = e
	return &e, nil
}

func (s *MemoryEventStore) List(ctx context.Context, title string) ([]model.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var events []model.Event
	for _, e := range s.events {
		if e.Deleted {
			continue
		}
		if title != "" && !strings.Contains(e.Title, title) {
			continue
		}
		events = append(events, e)
	}
	sort.Slice(events, func(i, j int) bool {
		if events[i].CreatedAt.Equal(events[j].CreatedAt) {
			return events[i].ID > events[j].ID
		}
		return events[i].CreatedAt.After(events[j].CreatedAt)
	})
	return events, nil
}

func (s *MemoryEventStore) GetByID(ctx context.Context, id int64) (*model.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getLocked(id)
}

func (s *MemoryEventStore) getLocked(id int64) (*model.Event, error) {
	e, ok := s.events[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &e, nil
}

func (s *MemoryEventStore) Update(ctx context.Context, id int64, data model.EventData) (*model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.events[id]
	if !ok {
		return nil, ErrNotFound
	}
	e.Title = data.Title
	e.Description = data.Description
	e.Date = data.Date
	e.Location = data.Location
	e.MaxAttendees = data.MaxAttendees
	e.UpdatedAt = time.Now().UTC()
	s.events[id] = e
	return &e, nil
}

func (s *MemoryEventStore) SetDeleted(ctx context.Context, id int64) (*model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.events[id]
	if !ok {
		return nil, ErrNotFound
	}
	e.Deleted = true
	e.UpdatedAt = time.Now().UTC()
	s.events[id] = e
	return &e, nil
}

// MemoryAttendeeStore is a mutex-guarded in-memory AttendeeStore with
// unique email and phone enforcement.
type MemoryAttendeeStore struct {
	mu      sync.RWMutex
	byEmail map[string]model.Attendee
	byPhone map[string]string // phone -> email
}

// NewMemoryAttendeeStore constructs an empty MemoryAttendeeStore.
func NewMemoryAttendeeStore() *MemoryAttendeeStore {
	return &MemoryAttendeeStore{
		byEmail: make(map[string]model.Attendee),
		byPhone: make(map[string]string),
	}
}

func (s *MemoryAttendeeStore) Create(ctx context.Context, data model.AttendeeData) (*model.Attendee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byEmail[data.Email]; ok {
		return nil, ErrDuplicateAttendee
	}
	if _, ok := s.byPhone[data.Phone]; ok {
		return nil, ErrDuplicateAttendee
	}
	a := model.Attendee{
		ID:     uuid.New().String(),
		Name:   data.Name,
		Gender: data.Gender,
		Email:  data.Email,
		Phone:  data.Phone,
	}
	s.byEmail[a.Email] = a
	s.byPhone[a.Phone] = a.Email
	return &a, nil
}

func (s *MemoryAttendeeStore) FindByEmail(ctx context.Context, email string) (*model.Attendee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.byEmail[email]
	if !ok {
		return nil, ErrNotFound
	}
	return &a, nil
}

func (s *MemoryAttendeeStore) FindByPhone(ctx context.Context, phone string) (*model.Attendee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	email, ok := s.byPhone[phone]
	if !ok {
		return nil, ErrNotFound
	}
	a := s.byEmail[email]
	return &a, nil
}

type regKey struct {
	eventID    int64
	attendeeID string
}

// MemoryRegistrationStore is an in-memory RegistrationStore. All
// registrations commit under a single mutex, which serializes the
// check-then-insert the same way the Postgres row lock does.
type MemoryRegistrationStore struct {
	mu     sync.Mutex
	events *MemoryEventStore
	regs   map[regKey]model.Registration
}

// NewMemoryRegistrationStore constructs a MemoryRegistrationStore backed
// by the given event store.
func NewMemoryRegistrationStore(events *MemoryEventStore) *MemoryRegistrationStore {
	return &MemoryRegistrationStore{
		events: events,
		regs:   make(map[regKey]model.Registration),
	}
}

func (s *MemoryRegistrationStore) Register(ctx context.Context, eventID int64, attendeeID string) (*model.Registration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.Deleted {
		return nil, ErrEventDeleted
	}
	if _, ok := s.regs[regKey{eventID, attendeeID}]; ok {
		return nil, ErrAlreadyRegistered
	}
	if s.countLocked(eventID) >= event.MaxAttendees {
		return nil, ErrEventFull
	}

	reg := model.Registration{
		ID:         uuid.New().String(),
		EventID:    eventID,
		AttendeeID: attendeeID,
		CreatedAt:  time.Now().UTC(),
	}
	s.regs[regKey{eventID, attendeeID}] = reg
	return &reg, nil
}

func (s *MemoryRegistrationStore) countLocked(eventID int64) int {
	count := 0
	for key := range s.regs {
		if key.eventID == eventID {
			count++
		}
	}
	return count
}

func (s *MemoryRegistrationStore) FindByEventAndAttendee(ctx context.Context, eventID int64, attendeeID string) (*model.Registration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	reg, ok := s.regs[regKey{eventID, attendeeID}]
	if !ok {
		return nil, ErrNotFound
	}
	return &reg, nil
}

func (s *MemoryRegistrationStore) CountByEvent(ctx context.Context, eventID int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.countLocked(eventID), nil
}

func (s *MemoryRegistrationStore) CountsByEvent(ctx context.Context) (map[int64]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	counts := make(map[int64]int)
	for key := range s.regs {
		counts[key.eventID]++
	}
	return counts, nil
}
