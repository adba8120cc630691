package handler

import (
	"encoding/json"
	"net/http"

	"github.com/clubhub-api/internal/application/feedback"
	"github.com/clubhub-api/internal/pkg/validate"
	"github.com/clubhub-api/internal/transport/http/middleware"
)

// FeedbackHandler handles feedback submission and listing.
type FeedbackHandler struct {
	svc feedback.Service
}

func NewFeedbackHandler(svc feedback.Service) *FeedbackHandler { return &FeedbackHandler{svc: svc} }

func (h *FeedbackHandler) Add(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req feedback.AddFeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeMessage(w, http.StatusBadRequest, "All fields are required.")
		return
	}

	f, err := h.svc.Add(r.Context(), req, claims.Email)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message":    "Feedback added successfully.",
		"feedbackId": f.FeedbackID,
	})
}

func (h *FeedbackHandler) List(w http.ResponseWriter, r *http.Request) {
	feedbacks, err := h.svc.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, feedbacks)
}
