package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/clubhub-api/internal/domain"
	jwtinfra "github.com/clubhub-api/internal/infrastructure/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTokenService scripts the verify/refresh outcomes and records whether
// a refresh was attempted.
type fakeTokenService struct {
	claims        *jwtinfra.Claims
	verifyErr     error
	newToken      string
	refreshClaims *jwtinfra.Claims
	refreshErr    error
	refreshCalled bool
}

func (f *fakeTokenService) VerifyToken(string) (*jwtinfra.Claims, error) {
	if f.verifyErr != nil {
		return nil, f.verifyErr
	}
	return f.claims, nil
}

func (f *fakeTokenService) Refresh(context.Context, string) (string, *jwtinfra.Claims, error) {
	f.refreshCalled = true
	if f.refreshErr != nil {
		return "", nil, f.refreshErr
	}
	return f.newToken, f.refreshClaims, nil
}

func okHandler(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }

func errorMessage(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body["error"]
}

func doRequest(svc TokenService, header string, roles ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rr := httptest.NewRecorder()
	RequireAuth(svc, roles...)(http.HandlerFunc(okHandler)).ServeHTTP(rr, req)
	return rr
}

func TestRequireAuth_MissingHeader(t *testing.T) {
	rr := doRequest(&fakeTokenService{}, "", "admin")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "No token provided", errorMessage(t, rr))
}

func TestRequireAuth_InvalidToken_NoRefreshAttempt(t *testing.T) {
	svc := &fakeTokenService{verifyErr: domain.ErrTokenInvalid}
	rr := doRequest(svc, "Bearer forged", "admin")

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "Invalid token", errorMessage(t, rr))
	assert.False(t, svc.refreshCalled, "invalid tokens must never be refreshed")
}

func TestRequireAuth_ExpiredToken_SilentRefresh(t *testing.T) {
	refreshed := &jwtinfra.Claims{UserID: "m1", Email: "a@x.com", Role: domain.RoleStudent}
	svc := &fakeTokenService{
		verifyErr:     domain.ErrTokenExpired,
		newToken:      "fresh-token",
		refreshClaims: refreshed,
	}

	var gotClaims *jwtinfra.Claims
	var gotToken string
	capture := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotClaims, _ = ClaimsFromContext(r.Context())
		gotToken, _ = NewTokenFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer expired")
	rr := httptest.NewRecorder()
	RequireAuth(svc, "Student")(capture).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "fresh-token", rr.Header().Get(NewTokenHeader))
	assert.Equal(t, "fresh-token", gotToken)
	require.NotNil(t, gotClaims)
	assert.Equal(t, "m1", gotClaims.UserID)
	assert.True(t, svc.refreshCalled)
}

func TestRequireAuth_ExpiredToken_RefreshFailure(t *testing.T) {
	svc := &fakeTokenService{
		verifyErr:  domain.ErrTokenExpired,
		refreshErr: domain.ErrRefreshInvalid,
	}
	rr := doRequest(svc, "Bearer expired", "Student")

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "Invalid token", errorMessage(t, rr))
}

func TestRequireAuth_RoleMiss_Forbidden(t *testing.T) {
	svc := &fakeTokenService{claims: &jwtinfra.Claims{UserID: "m1", Role: domain.RoleStudent}}
	rr := doRequest(svc, "Bearer valid", "admin")

	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, "Insufficient permissions", errorMessage(t, rr))
}

func TestRequireAuth_RoleMatchIsCaseInsensitive(t *testing.T) {
	svc := &fakeTokenService{claims: &jwtinfra.Claims{UserID: "adm1", Role: "ADMIN"}}
	rr := doRequest(svc, "Bearer valid", "admin")
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRequireAuth_ValidToken_InjectsClaims(t *testing.T) {
	svc := &fakeTokenService{claims: &jwtinfra.Claims{UserID: "m1", Email: "a@x.com", Role: domain.RoleStudent}}

	var gotClaims *jwtinfra.Claims
	capture := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotClaims, _ = ClaimsFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer valid")
	rr := httptest.NewRecorder()
	RequireAuth(svc, "Student")(capture).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	require.NotNil(t, gotClaims)
	assert.Equal(t, "m1", gotClaims.UserID)
	assert.Equal(t, domain.RoleStudent, gotClaims.Role)
}
