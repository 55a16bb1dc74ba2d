package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"eventregistry/internal/metrics"
	"eventregistry/internal/model"
	"eventregistry/internal/repository"
	"eventregistry/internal/service"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	events := repository.NewMemoryEventStore()
	attendees := repository.NewMemoryAttendeeStore()
	registrations := repository.NewMemoryRegistrationStore(events)

	m := metrics.New(prometheus.NewRegistry())
	attendeeSvc := service.NewAttendeeService(attendees)
	eventSvc := service.NewEventService(events, registrations)
	registrationSvc := service.NewRegistrationService(events, attendeeSvc, registrations, m)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := NewEventHandler(eventSvc, registrationSvc, logger)

	r := chi.NewRouter()
	r.Use(Logger(logger))
	r.Use(Observe(m))
	r.Use(CORS)
	r.Get("/health", HealthCheck)
	r.Route("/events", func(r chi.Router) {
		r.Post("/", h.CreateEvent)
		r.Get("/", h.ListEvents)
		r.Get("/{id}", h.GetEvent)
		r.Put("/{id}", h.UpdateEvent)
		r.Delete("/{id}", h.DeleteEvent)
		r.Post("/{id}/register", h.Register)
	})
	return r
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func eventPayload(title string, maxAttendees int) map[string]any {
	return map[string]any{
		"title":        title,
		"description":  "An evening of talks.",
		"date":         time.Now().AddDate(0, 0, 7).Format(time.RFC3339),
		"location":     "Town Hall",
		"maxAttendees": maxAttendees,
	}
}

func attendeePayload(name, email, phone string) map[string]any {
	return map[string]any{
		"name":   name,
		"gender": "FEMALE",
		"email":  email,
		"phone":  phone,
	}
}

func createEvent(t *testing.T, router http.Handler, title string, maxAttendees int) model.Event {
	t.Helper()
	rec := doJSON(t, router, http.MethodPost, "/events", eventPayload(title, maxAttendees))
	require.Equal(t, http.StatusCreated, rec.Code)
	return decodeBody[model.Event](t, rec)
}

func TestCreateEvent(t *testing.T) {
	router := newTestRouter(t)

	t.Run("created", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/events", eventPayload("Go Meetup", 50))
		require.Equal(t, http.StatusCreated, rec.Code)
		event := decodeBody[model.Event](t, rec)
		require.NotZero(t, event.ID)
		require.Equal(t, "Go Meetup", event.Title)
	})

	t.Run("invalid data", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/events", eventPayload("", 50))
		require.Equal(t, http.StatusBadRequest, rec.Code)
		resp := decodeBody[model.ErrorResponse](t, rec)
		require.Equal(t, "Invalid event data provided.", resp.Message)
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/events", bytes.NewBufferString("{not json"))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestListEvents(t *testing.T) {
	router := newTestRouter(t)

	t.Run("empty listing is an array", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/events", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		require.JSONEq(t, "[]", rec.Body.String())
	})

	event := createEvent(t, router, "Go Meetup", 10)
	createEvent(t, router, "Rust Meetup", 10)

	rec := doJSON(t, router, http.MethodPost, fmt.Sprintf("/events/%d/register", event.ID),
		attendeePayload("Jane", "jane@example.com", "0123456789"))
	require.Equal(t, http.StatusCreated, rec.Code)

	t.Run("annotates joinedAttendee", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/events", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		events := decodeBody[[]model.EventWithCount](t, rec)
		require.Len(t, events, 2)
		for _, e := range events {
			if e.ID == event.ID {
				require.Equal(t, 1, e.JoinedAttendee)
			} else {
				require.Equal(t, 0, e.JoinedAttendee)
			}
		}
	})

	t.Run("title filter", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/events?title=Rust", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		events := decodeBody[[]model.EventWithCount](t, rec)
		require.Len(t, events, 1)
		require.Equal(t, "Rust Meetup", events[0].Title)
	})
}

func TestGetEvent(t *testing.T) {
	router := newTestRouter(t)
	event := createEvent(t, router, "Go Meetup", 10)

	t.Run("found", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, fmt.Sprintf("/events/%d", event.ID), nil)
		require.Equal(t, http.StatusOK, rec.Code)
		got := decodeBody[model.Event](t, rec)
		require.Equal(t, event.ID, got.ID)
	})

	t.Run("not found", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/events/9999", nil)
		require.Equal(t, http.StatusNotFound, rec.Code)
		resp := decodeBody[model.ErrorResponse](t, rec)
		require.Equal(t, "Event not found", resp.Message)
	})

	t.Run("invalid id", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/events/abc", nil)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		resp := decodeBody[model.ErrorResponse](t, rec)
		require.Equal(t, "Invalid event ID provided.", resp.Message)
	})
}

func TestUpdateEvent(t *testing.T) {
	router := newTestRouter(t)
	event := createEvent(t, router, "Go Meetup", 10)

	t.Run("updated", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPut, fmt.Sprintf("/events/%d", event.ID),
			eventPayload("Go Conference", 80))
		require.Equal(t, http.StatusOK, rec.Code)
		got := decodeBody[model.Event](t, rec)
		require.Equal(t, "Go Conference", got.Title)
		require.Equal(t, 80, got.MaxAttendees)
	})

	t.Run("capacity shrink below headcount", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			rec := doJSON(t, router, http.MethodPost, fmt.Sprintf("/events/%d/register", event.ID),
				attendeePayload("Attendee", fmt.Sprintf("a%d@example.com", i), fmt.Sprintf("012345678%d", i)))
			require.Equal(t, http.StatusCreated, rec.Code)
		}

		rec := doJSON(t, router, http.MethodPut, fmt.Sprintf("/events/%d", event.ID),
			eventPayload("Tiny", 2))
		require.Equal(t, http.StatusConflict, rec.Code)
		resp := decodeBody[model.ErrorResponse](t, rec)
		require.Equal(t, "Attendees exceed maximum.", resp.Message)
	})

	t.Run("not found", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPut, "/events/9999", eventPayload("Nope", 5))
		require.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestDeleteEvent(t *testing.T) {
	router := newTestRouter(t)
	event := createEvent(t, router, "Go Meetup", 10)

	rec := doJSON(t, router, http.MethodDelete, fmt.Sprintf("/events/%d", event.ID), nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	t.Run("gone from listings, still retrievable", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/events", nil)
		require.JSONEq(t, "[]", rec.Body.String())

		rec = doJSON(t, router, http.MethodGet, fmt.Sprintf("/events/%d", event.ID), nil)
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("registration refused", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, fmt.Sprintf("/events/%d/register", event.ID),
			attendeePayload("Jane", "jane@example.com", "0123456789"))
		require.Equal(t, http.StatusGone, rec.Code)
		resp := decodeBody[model.ErrorResponse](t, rec)
		require.Equal(t, "Event is deleted", resp.Message)
	})

	t.Run("not found", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodDelete, "/events/9999", nil)
		require.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestRegister(t *testing.T) {
	router := newTestRouter(t)
	event := createEvent(t, router, "Go Meetup", 2)

	t.Run("created", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, fmt.Sprintf("/events/%d/register", event.ID),
			attendeePayload("Jane", "jane@example.com", "0123456789"))
		require.Equal(t, http.StatusCreated, rec.Code)
		reg := decodeBody[model.Registration](t, rec)
		require.Equal(t, event.ID, reg.EventID)
		require.NotEmpty(t, reg.AttendeeID)
	})

	t.Run("duplicate registration", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, fmt.Sprintf("/events/%d/register", event.ID),
			attendeePayload("Jane", "jane@example.com", "0123456789"))
		require.Equal(t, http.StatusConflict, rec.Code)
		resp := decodeBody[model.ErrorResponse](t, rec)
		require.Equal(t, "Attendee is already registered for this event", resp.Message)
	})

	t.Run("event full", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, fmt.Sprintf("/events/%d/register", event.ID),
			attendeePayload("John", "john@example.com", "0123456780"))
		require.Equal(t, http.StatusCreated, rec.Code)

		rec = doJSON(t, router, http.MethodPost, fmt.Sprintf("/events/%d/register", event.ID),
			attendeePayload("Late", "late@example.com", "0123456781"))
		require.Equal(t, http.StatusConflict, rec.Code)
		resp := decodeBody[model.ErrorResponse](t, rec)
		require.Equal(t, "Event is full", resp.Message)
	})

	t.Run("missing body", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, fmt.Sprintf("/events/%d/register", event.ID), nil)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		resp := decodeBody[model.ErrorResponse](t, rec)
		require.Equal(t, "Attendee data must be provided", resp.Message)
	})

	t.Run("invalid attendee data", func(t *testing.T) {
		other := createEvent(t, router, "Rust Meetup", 5)
		rec := doJSON(t, router, http.MethodPost, fmt.Sprintf("/events/%d/register", other.ID),
			attendeePayload("New", "new@example", "0123456782"))
		require.Equal(t, http.StatusBadRequest, rec.Code)
		resp := decodeBody[model.ErrorResponse](t, rec)
		require.Equal(t, "Invalid attendee data", resp.Message)
	})

	t.Run("event not found", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/events/9999/register",
			attendeePayload("Jane", "x@example.com", "0123456783"))
		require.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestHealthCheck(t *testing.T) {
	router := newTestRouter(t)
	rec := doJSON(t, router, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
