package handler

import (
	"context"
	"net/http"

	"github.com/clubhub-api/internal/domain"
	"github.com/clubhub-api/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
)

// AdminStore is the slice of the admins table the handler needs.
type AdminStore interface {
	Get(ctx context.Context, adminID string) (*domain.Admin, error)
}

// AdminHandler handles admin lookups and the admin smoke-test route. Member
// management done by admins lives on MemberHandler; the admin auth flow on
// AuthHandler.
type AdminHandler struct {
	admins AdminStore
}

func NewAdminHandler(admins AdminStore) *AdminHandler { return &AdminHandler{admins: admins} }

func (h *AdminHandler) Get(w http.ResponseWriter, r *http.Request) {
	a, err := h.admins.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeMessage(w, http.StatusNotFound, "Admin not found.")
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// AdminOnly is the authenticated smoke-test route for admins.
func (h *AdminHandler) AdminOnly(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Access granted to admin-only route",
		"userId":  claims.UserID,
	})
}
