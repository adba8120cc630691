package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/clubhub-api/internal/domain"
	jwtinfra "github.com/clubhub-api/internal/infrastructure/jwt"
)

type contextKey string

const (
	ClaimsKey   contextKey = "claims"
	NewTokenKey contextKey = "newAccessToken"
)

// NewTokenHeader carries a silently refreshed access token back to the
// client alongside the normal response.
const NewTokenHeader = "X-New-Access-Token"

// TokenService is the slice of the auth service the middleware needs.
type TokenService interface {
	VerifyToken(tokenStr string) (*jwtinfra.Claims, error)
	Refresh(ctx context.Context, tokenStr string) (string, *jwtinfra.Claims, error)
}

// RequireAuth gates a route behind a Bearer token and a role allow-list.
//
// A missing header is 401. An invalid token is 401 with no refresh attempt;
// forged tokens are not recoverable. An expired token triggers a silent
// refresh: on success the request proceeds with the refreshed claims and the
// new token is attached to the context and the X-New-Access-Token response
// header, on failure 401. A valid token whose role misses the allow-list
// (case-insensitive) is 403.
func RequireAuth(svc TokenService, allowedRoles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				writeJSONError(w, http.StatusUnauthorized, "No token provided")
				return
			}
			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

			claims, err := svc.VerifyToken(tokenStr)
			if err != nil {
				if !errors.Is(err, domain.ErrTokenExpired) {
					writeJSONError(w, http.StatusUnauthorized, "Invalid token")
					return
				}
				newToken, refreshed, rErr := svc.Refresh(r.Context(), tokenStr)
				if rErr != nil {
					writeJSONError(w, http.StatusUnauthorized, "Invalid token")
					return
				}
				w.Header().Set(NewTokenHeader, newToken)
				ctx := context.WithValue(r.Context(), ClaimsKey, refreshed)
				ctx = context.WithValue(ctx, NewTokenKey, newToken)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			if !roleAllowed(claims.Role, allowedRoles) {
				writeJSONError(w, http.StatusForbidden, "Insufficient permissions")
				return
			}
			ctx := context.WithValue(r.Context(), ClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func roleAllowed(role string, allowed []string) bool {
	for _, a := range allowed {
		if strings.EqualFold(role, a) {
			return true
		}
	}
	return false
}

// ClaimsFromContext extracts the authenticated claims from the request context.
func ClaimsFromContext(ctx context.Context) (*jwtinfra.Claims, bool) {
	c, ok := ctx.Value(ClaimsKey).(*jwtinfra.Claims)
	return c, ok
}

// NewTokenFromContext returns the silently refreshed token, if any.
func NewTokenFromContext(ctx context.Context) (string, bool) {
	t, ok := ctx.Value(NewTokenKey).(string)
	return t, ok
}
