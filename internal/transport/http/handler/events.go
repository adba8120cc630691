package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/clubhub-api/internal/application/event"
	"github.com/clubhub-api/internal/domain"
	"github.com/clubhub-api/internal/pkg/validate"
	"github.com/go-chi/chi/v5"
)

// EventHandler handles event CRUD, search, and participation lookups.
type EventHandler struct {
	svc event.Service
}

func NewEventHandler(svc event.Service) *EventHandler { return &EventHandler{svc: svc} }

func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeMessage(w, http.StatusBadRequest, "All fields are required.")
		return
	}

	e, err := h.svc.Create(r.Context(), req)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Event added successfully.",
		"eventId": e.EventID,
	})
}

func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	events, err := h.svc.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, events)
}

func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	e, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeMessage(w, http.StatusNotFound, "event not found.")
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (h *EventHandler) ListByCategory(w http.ResponseWriter, r *http.Request) {
	events, err := h.svc.ListByCategory(r.Context(), chi.URLParam(r, "category"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, events)
}

func (h *EventHandler) Search(w http.ResponseWriter, r *http.Request) {
	events, err := h.svc.Search(r.Context(), chi.URLParam(r, "letters"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, events)
}

func (h *EventHandler) MemberParticipation(w http.ResponseWriter, r *http.Request) {
	events, err := h.svc.MemberParticipation(r.Context(), chi.URLParam(r, "memberId"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, events)
}

func (h *EventHandler) JoinedMembers(w http.ResponseWriter, r *http.Request) {
	members, err := h.svc.JoinedMembers(r.Context(), chi.URLParam(r, "eventId"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeMessage(w, http.StatusNotFound, "event not found.")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, members)
}

func (h *EventHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	changed, err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeMessage(w, http.StatusNotFound, "event not found.")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if !changed {
		writeMessage(w, http.StatusOK, "No changes were made")
		return
	}
	writeMessage(w, http.StatusOK, "Event updated successfully")
}

func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeMessage(w, http.StatusNotFound, "event not found.")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeMessage(w, http.StatusOK, "Event deleted successfully.")
}
