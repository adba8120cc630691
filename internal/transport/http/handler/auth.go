package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/clubhub-api/internal/application/auth"
	"github.com/clubhub-api/internal/domain"
	"github.com/clubhub-api/internal/pkg/validate"
)

// ProfileLoader fetches the full principal record for the verify response.
type ProfileLoader func(ctx context.Context, id string) (interface{}, error)

// AuthHandler runs the OTP login flow for one principal kind. The member
// and admin route groups each mount their own instance; the flow itself is
// shared.
type AuthHandler struct {
	svc         auth.Service
	kind        domain.PrincipalKind
	notFoundMsg string
	profile     ProfileLoader
}

func NewAuthHandler(svc auth.Service, kind domain.PrincipalKind, notFoundMsg string, profile ProfileLoader) *AuthHandler {
	return &AuthHandler{svc: svc, kind: kind, notFoundMsg: notFoundMsg, profile: profile}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req auth.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeMessage(w, http.StatusBadRequest, "All fields are required.")
		return
	}

	res, err := h.svc.Login(r.Context(), h.kind, req)
	if err != nil {
		h.writeIssueError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, OTPEnvelope{
		Message: "OTP sent to your email for verification.",
		OTP:     res.OTP,
	})
}

func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req auth.VerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeMessage(w, http.StatusBadRequest, "All fields are required.")
		return
	}

	res, err := h.svc.Verify(r.Context(), h.kind, req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUnauthorized):
			writeMessage(w, http.StatusUnauthorized, "Invalid email or password.")
		case errors.Is(err, domain.ErrChallengeExpired):
			writeMessage(w, http.StatusUnauthorized, "OTP has expired. Please request a new OTP.")
		case errors.Is(err, domain.ErrChallengeMismatch):
			writeMessage(w, http.StatusUnauthorized, "Invalid OTP.")
		default:
			writeError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	user, err := h.profile(r.Context(), res.Principal.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, SessionEnvelope{
		Message: "Login successful.",
		Token:   res.Token,
		User:    user,
	})
}

func (h *AuthHandler) Resend(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email" validate:"required,email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeMessage(w, http.StatusBadRequest, "All fields are required.")
		return
	}

	res, err := h.svc.Resend(r.Context(), h.kind, req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeMessage(w, http.StatusNotFound, h.notFoundMsg)
			return
		}
		h.writeIssueError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, OTPEnvelope{
		Message: "New OTP sent to your email for verification.",
		OTP:     res.OTP,
	})
}

// RefreshToken mints a fresh access token from an expired one, outside the
// middleware's silent-refresh path.
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refreshToken" validate:"required"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeMessage(w, http.StatusBadRequest, "All fields are required.")
		return
	}

	token, _, err := h.svc.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		writeMessage(w, http.StatusUnauthorized, "Invalid refresh token")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"accessToken": token})
}

func (h *AuthHandler) writeIssueError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		writeMessage(w, http.StatusUnauthorized, "Invalid email or password.")
	case errors.Is(err, domain.ErrChallengeActive):
		writeMessage(w, http.StatusBadRequest, "Existing OTP is still valid. Wait for it to expire.")
	default:
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
