// Package handler contains the chi HTTP handlers that translate
// requests and responses to and from the service layer.
package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"eventregistry/internal/model"
	"eventregistry/internal/repository"
	"eventregistry/internal/service"
)

// EventHandler holds all HTTP handlers for the event registry API.
type EventHandler struct {
	events        *service.EventService
	registrations *service.RegistrationService
	logger        *slog.Logger
}

// NewEventHandler constructs an EventHandler.
func NewEventHandler(events *service.EventService, registrations *service.RegistrationService, logger *slog.Logger) *EventHandler {
	return &EventHandler{events: events, registrations: registrations, logger: logger}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, model.ErrorResponse{Message: msg})
}

func decodeJSON(r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, 1<<20) // 1 MB limit
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// statusFor maps business-rule failures to HTTP status codes. Anything
// unrecognized is an infrastructure error.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidEventData),
		errors.Is(err, service.ErrInvalidEventID),
		errors.Is(err, service.ErrInvalidAttendeeData),
		errors.Is(err, service.ErrMissingEmail),
		errors.Is(err, service.ErrMissingPhone),
		errors.Is(err, service.ErrMissingEventID),
		errors.Is(err, service.ErrMissingAttendeeData):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrEventNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrEventDeleted):
		return http.StatusGone
	case errors.Is(err, service.ErrEventFull),
		errors.Is(err, service.ErrAlreadyRegistered),
		errors.Is(err, service.ErrCapacityExceeded),
		errors.Is(err, repository.ErrDuplicateAttendee):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (h *EventHandler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeError(w, status, "internal server error")
		return
	}
	writeError(w, status, err.Error())
}

// eventID parses the {id} path parameter as an integer.
func eventID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, service.ErrInvalidEventID
	}
	return id, nil
}

// CreateEvent handles POST /events.
func (h *EventHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var data model.EventData
	if err := decodeJSON(r, &data); err != nil {
		writeError(w, http.StatusBadRequest, service.ErrInvalidEventData.Error())
		return
	}

	event, err := h.events.Create(r.Context(), data)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, event)
}

// ListEvents handles GET /events. An optional title query parameter
// narrows the listing by case-sensitive substring match.
func (h *EventHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.events.List(r.Context(), r.URL.Query().Get("title"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	// Empty array rather than null for better client compatibility.
	if events == nil {
		events = []model.EventWithCount{}
	}
	writeJSON(w, http.StatusOK, events)
}

// GetEvent handles GET /events/{id}.
func (h *EventHandler) GetEvent(w http.ResponseWriter, r *http.Request) {
	id, err := eventID(r)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	event, err := h.events.GetByID(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, event)
}

// UpdateEvent handles PUT /events/{id}, replacing all event fields.
func (h *EventHandler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	id, err := eventID(r)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	var data model.EventData
	if err := decodeJSON(r, &data); err != nil {
		writeError(w, http.StatusBadRequest, service.ErrInvalidEventData.Error())
		return
	}

	event, err := h.events.Update(r.Context(), id, data)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, event)
}

// DeleteEvent handles DELETE /events/{id} (soft delete).
func (h *EventHandler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	id, err := eventID(r)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	if _, err := h.events.SoftDelete(r.Context(), id); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Register handles POST /events/{id}/register.
func (h *EventHandler) Register(w http.ResponseWriter, r *http.Request) {
	id, err := eventID(r)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	var data *model.AttendeeData
	if err := decodeJSON(r, &data); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, service.ErrInvalidAttendeeData.Error())
		return
	}

	reg, err := h.registrations.Register(r.Context(), id, data)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, reg)
}

// HealthCheck handles GET /health.
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
