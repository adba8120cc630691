package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/clubhub-api/internal/application/member"
	"github.com/clubhub-api/internal/domain"
	"github.com/clubhub-api/internal/pkg/validate"
	"github.com/clubhub-api/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
)

// MemberHandler handles member registration, profile CRUD, and event joins.
type MemberHandler struct {
	svc member.Service
}

func NewMemberHandler(svc member.Service) *MemberHandler { return &MemberHandler{svc: svc} }

func (h *MemberHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeMessage(w, http.StatusBadRequest, "All fields are required.")
		return
	}
	if len(req.Password) < 8 {
		writeMessage(w, http.StatusBadRequest, "Password must be at least 8 characters long.")
		return
	}

	m, err := h.svc.Register(r.Context(), req)
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			writeMessage(w, http.StatusBadRequest, "Email already in use. Please choose a different email.")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusCreated, UserEnvelope{Message: "Registration successful.", User: m})
}

func (h *MemberHandler) List(w http.ResponseWriter, r *http.Request) {
	members, err := h.svc.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, members)
}

func (h *MemberHandler) Get(w http.ResponseWriter, r *http.Request) {
	m, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeMessage(w, http.StatusNotFound, "Member not found.")
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (h *MemberHandler) ListByPosition(w http.ResponseWriter, r *http.Request) {
	members, err := h.svc.ListByPosition(r.Context(), chi.URLParam(r, "position"))
	if err != nil {
		writeMessage(w, http.StatusNotFound, "Member not found.")
		return
	}
	writeJSON(w, http.StatusOK, members)
}

// Update is the member's own profile update.
func (h *MemberHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	changed, err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeMessage(w, http.StatusNotFound, "Member not found.")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if !changed {
		writeMessage(w, http.StatusOK, "No changes were made")
		return
	}
	writeMessage(w, http.StatusOK, "Member updated successfully")
}

// UpdatePlacement is the admin-side update of a member's position and title.
func (h *MemberHandler) UpdatePlacement(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Position *string `json:"position"`
		Title    *string `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	changed, err := h.svc.UpdatePlacement(r.Context(), chi.URLParam(r, "id"), req.Position, req.Title)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeMessage(w, http.StatusNotFound, "Member not found.")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if !changed {
		writeMessage(w, http.StatusOK, "No changes were made")
		return
	}
	writeMessage(w, http.StatusOK, "Member updated successfully")
}

func (h *MemberHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeMessage(w, http.StatusNotFound, "Member not found.")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeMessage(w, http.StatusOK, "Member deleted successfully.")
}

func (h *MemberHandler) JoinEvent(w http.ResponseWriter, r *http.Request) {
	memberID := chi.URLParam(r, "memberId")
	eventID := chi.URLParam(r, "eventId")
	joinedDate := time.Now().UTC().Format(time.RFC3339)

	if err := h.svc.JoinEvent(r.Context(), memberID, eventID, joinedDate); err != nil {
		switch {
		case errors.Is(err, member.ErrEventNotFound):
			writeMessage(w, http.StatusNotFound, "Event not found.")
		case errors.Is(err, member.ErrMemberNotFound):
			writeMessage(w, http.StatusNotFound, "Member not found.")
		case errors.Is(err, member.ErrAlreadyJoined):
			writeMessage(w, http.StatusBadRequest, "You have already joined this event.")
		default:
			writeError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}
	writeMessage(w, http.StatusCreated, "Event joined successfully.")
}

// MemberOnly is the authenticated smoke-test route for members.
func (h *MemberHandler) MemberOnly(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Access granted to member-only route",
		"userId":  claims.UserID,
	})
}
