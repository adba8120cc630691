package auth

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/clubhub-api/internal/domain"
	jwtinfra "github.com/clubhub-api/internal/infrastructure/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// --- fakes ---

// fakeStore is an in-memory PrincipalStore holding a single principal, so
// tests can observe OTP slot state across calls.
type fakeStore struct {
	mu sync.Mutex
	p  *domain.Principal
}

func (f *fakeStore) GetByEmail(_ context.Context, email string) (*domain.Principal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.p == nil || f.p.Email != email {
		return nil, domain.ErrNotFound
	}
	cp := *f.p
	return &cp, nil
}

func (f *fakeStore) Get(_ context.Context, id string) (*domain.Principal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.p == nil || f.p.ID != id {
		return nil, domain.ErrNotFound
	}
	cp := *f.p
	return &cp, nil
}

func (f *fakeStore) UpdateOTP(_ context.Context, id string, code *string, expiresAt *int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.p == nil || f.p.ID != id {
		return domain.ErrNotFound
	}
	f.p.OTPCode = code
	f.p.OTPExpiresAt = expiresAt
	return nil
}

func (f *fakeStore) otpState() (*string, *int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.p.OTPCode, f.p.OTPExpiresAt
}

type stubMailer struct{ sent chan string }

func (m *stubMailer) SendEmail(to, subject, body string) error {
	if m.sent != nil {
		m.sent <- body
	}
	return nil
}

// --- helpers ---

const testSecret = "test-secret-test-secret-test-secret"

func hashOf(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func memberPrincipal(t *testing.T) *domain.Principal {
	return &domain.Principal{
		ID:           "m1",
		Email:        "a@x.com",
		PasswordHash: hashOf(t, "password123"),
		Role:         domain.RoleStudent,
	}
}

func newTestService(t *testing.T, members, admins *fakeStore, jwtExpiry time.Duration) (Service, *stubMailer) {
	t.Helper()
	provider, err := jwtinfra.NewProvider(testSecret, jwtExpiry)
	require.NoError(t, err)
	mailer := &stubMailer{sent: make(chan string, 4)}
	if admins == nil {
		admins = &fakeStore{}
	}
	return NewService(members, admins, mailer, provider, 30*time.Second), mailer
}

func ptr[T any](v T) *T { return &v }

// --- Login / issue tests ---

func TestLogin_UnknownEmail_Unauthorized(t *testing.T) {
	svc, _ := newTestService(t, &fakeStore{}, nil, 2*time.Minute)
	_, err := svc.Login(context.Background(), domain.KindMember, LoginRequest{Email: "nobody@x.com", Password: "password123"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
}

func TestLogin_WrongPassword_Unauthorized(t *testing.T) {
	store := &fakeStore{p: memberPrincipal(t)}
	svc, _ := newTestService(t, store, nil, 2*time.Minute)
	_, err := svc.Login(context.Background(), domain.KindMember, LoginRequest{Email: "a@x.com", Password: "wrong"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
}

func TestLogin_IssuesChallenge(t *testing.T) {
	store := &fakeStore{p: memberPrincipal(t)}
	svc, mailer := newTestService(t, store, nil, 2*time.Minute)

	before := time.Now().UnixMilli()
	res, err := svc.Login(context.Background(), domain.KindMember, LoginRequest{Email: "a@x.com", Password: "password123"})
	require.NoError(t, err)

	require.Len(t, res.OTP, 6)
	assert.GreaterOrEqual(t, res.OTP, "100000")
	assert.LessOrEqual(t, res.OTP, "999999")
	assert.GreaterOrEqual(t, res.ExpiresAt, before+30_000)
	assert.LessOrEqual(t, res.ExpiresAt, time.Now().UnixMilli()+30_000)

	code, exp := store.otpState()
	require.NotNil(t, code)
	require.NotNil(t, exp)
	assert.Equal(t, res.OTP, *code)
	assert.Equal(t, res.ExpiresAt, *exp)

	select {
	case body := <-mailer.sent:
		assert.Contains(t, body, res.OTP)
	case <-time.After(time.Second):
		t.Fatal("OTP email was never dispatched")
	}
}

func TestLogin_SecondIssueWhileActive_ChallengeActive(t *testing.T) {
	store := &fakeStore{p: memberPrincipal(t)}
	svc, _ := newTestService(t, store, nil, 2*time.Minute)

	_, err := svc.Login(context.Background(), domain.KindMember, LoginRequest{Email: "a@x.com", Password: "password123"})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), domain.KindMember, LoginRequest{Email: "a@x.com", Password: "password123"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrChallengeActive))
}

func TestLogin_ExpiredChallengeDoesNotBlockReissue(t *testing.T) {
	p := memberPrincipal(t)
	p.OTPCode = ptr("123456")
	p.OTPExpiresAt = ptr(time.Now().UnixMilli() - 1000)
	store := &fakeStore{p: p}
	svc, _ := newTestService(t, store, nil, 2*time.Minute)

	res, err := svc.Login(context.Background(), domain.KindMember, LoginRequest{Email: "a@x.com", Password: "password123"})
	require.NoError(t, err)
	assert.NotEqual(t, "", res.OTP)
}

func TestLogin_UnknownKind_BadRequest(t *testing.T) {
	svc, _ := newTestService(t, &fakeStore{}, nil, 2*time.Minute)
	_, err := svc.Login(context.Background(), domain.PrincipalKind("robot"), LoginRequest{Email: "a@x.com", Password: "x"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
}

// --- Verify tests ---

func TestVerify_HappyPath_MintsTokenAndClearsSlot(t *testing.T) {
	store := &fakeStore{p: memberPrincipal(t)}
	svc, _ := newTestService(t, store, nil, 2*time.Minute)

	issued, err := svc.Login(context.Background(), domain.KindMember, LoginRequest{Email: "a@x.com", Password: "password123"})
	require.NoError(t, err)

	res, err := svc.Verify(context.Background(), domain.KindMember, VerifyRequest{
		Email: "a@x.com", Password: "password123", OTP: issued.OTP,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, "m1", res.Principal.ID)

	code, exp := store.otpState()
	assert.Nil(t, code)
	assert.Nil(t, exp)

	claims, err := svc.VerifyToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, "m1", claims.UserID)
	assert.Equal(t, "a@x.com", claims.Email)
	assert.Equal(t, domain.RoleStudent, claims.Role)
}

func TestVerify_ReplaySameCode_Fails(t *testing.T) {
	store := &fakeStore{p: memberPrincipal(t)}
	svc, _ := newTestService(t, store, nil, 2*time.Minute)

	issued, err := svc.Login(context.Background(), domain.KindMember, LoginRequest{Email: "a@x.com", Password: "password123"})
	require.NoError(t, err)

	_, err = svc.Verify(context.Background(), domain.KindMember, VerifyRequest{
		Email: "a@x.com", Password: "password123", OTP: issued.OTP,
	})
	require.NoError(t, err)

	// The slot is cleared, so the same code is now rejected as expired.
	_, err = svc.Verify(context.Background(), domain.KindMember, VerifyRequest{
		Email: "a@x.com", Password: "password123", OTP: issued.OTP,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrChallengeExpired))
}

func TestVerify_ExpiredCode_ReportsExpiredEvenWhenWrong(t *testing.T) {
	p := memberPrincipal(t)
	p.OTPCode = ptr("123456")
	p.OTPExpiresAt = ptr(time.Now().UnixMilli() - 1000)
	store := &fakeStore{p: p}
	svc, _ := newTestService(t, store, nil, 2*time.Minute)

	// Expiry wins over mismatch: a wrong AND expired code reports expired.
	_, err := svc.Verify(context.Background(), domain.KindMember, VerifyRequest{
		Email: "a@x.com", Password: "password123", OTP: "000000",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrChallengeExpired))
	assert.False(t, errors.Is(err, domain.ErrChallengeMismatch))
}

func TestVerify_WrongCode_ChallengeMismatch(t *testing.T) {
	p := memberPrincipal(t)
	p.OTPCode = ptr("123456")
	p.OTPExpiresAt = ptr(time.Now().UnixMilli() + 30_000)
	store := &fakeStore{p: p}
	svc, _ := newTestService(t, store, nil, 2*time.Minute)

	_, err := svc.Verify(context.Background(), domain.KindMember, VerifyRequest{
		Email: "a@x.com", Password: "password123", OTP: "654321",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrChallengeMismatch))

	// A mismatch does not consume the challenge.
	code, _ := store.otpState()
	require.NotNil(t, code)
	assert.Equal(t, "123456", *code)
}

func TestVerify_WrongPassword_Unauthorized(t *testing.T) {
	p := memberPrincipal(t)
	p.OTPCode = ptr("123456")
	p.OTPExpiresAt = ptr(time.Now().UnixMilli() + 30_000)
	svc, _ := newTestService(t, &fakeStore{p: p}, nil, 2*time.Minute)

	_, err := svc.Verify(context.Background(), domain.KindMember, VerifyRequest{
		Email: "a@x.com", Password: "wrong", OTP: "123456",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
}

// --- Resend tests ---

func TestResend_UnknownEmail_NotFound(t *testing.T) {
	svc, _ := newTestService(t, &fakeStore{}, nil, 2*time.Minute)
	_, err := svc.Resend(context.Background(), domain.KindMember, "nobody@x.com")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestResend_ActiveChallenge_ChallengeActive(t *testing.T) {
	p := memberPrincipal(t)
	p.OTPCode = ptr("123456")
	p.OTPExpiresAt = ptr(time.Now().UnixMilli() + 30_000)
	svc, _ := newTestService(t, &fakeStore{p: p}, nil, 2*time.Minute)

	_, err := svc.Resend(context.Background(), domain.KindMember, "a@x.com")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrChallengeActive))
}

func TestResend_IssuesWithoutPasswordCheck(t *testing.T) {
	store := &fakeStore{p: memberPrincipal(t)}
	svc, _ := newTestService(t, store, nil, 2*time.Minute)

	res, err := svc.Resend(context.Background(), domain.KindMember, "a@x.com")
	require.NoError(t, err)
	require.Len(t, res.OTP, 6)

	code, _ := store.otpState()
	require.NotNil(t, code)
	assert.Equal(t, res.OTP, *code)
}

// --- Token / refresh tests ---

func TestVerifyToken_Tampered_TokenInvalid(t *testing.T) {
	svc, _ := newTestService(t, &fakeStore{}, nil, 2*time.Minute)
	_, err := svc.VerifyToken("not.a.token")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrTokenInvalid))
}

func TestVerifyToken_Expired_TokenExpired(t *testing.T) {
	p := memberPrincipal(t)
	p.OTPCode = ptr("123456")
	p.OTPExpiresAt = ptr(time.Now().UnixMilli() + 30_000)
	store := &fakeStore{p: p}
	// Negative lifetime mints tokens that are already expired.
	svc, _ := newTestService(t, store, nil, -time.Minute)

	res, err := svc.Verify(context.Background(), domain.KindMember, VerifyRequest{
		Email: "a@x.com", Password: "password123", OTP: "123456",
	})
	require.NoError(t, err)

	_, err = svc.VerifyToken(res.Token)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrTokenExpired))
	assert.False(t, errors.Is(err, domain.ErrTokenInvalid))
}

func TestRefresh_ExpiredToken_MintsFreshToken(t *testing.T) {
	p := memberPrincipal(t)
	p.OTPCode = ptr("123456")
	p.OTPExpiresAt = ptr(time.Now().UnixMilli() + 30_000)
	store := &fakeStore{p: p}
	svc, _ := newTestService(t, store, nil, -time.Minute)

	res, err := svc.Verify(context.Background(), domain.KindMember, VerifyRequest{
		Email: "a@x.com", Password: "password123", OTP: "123456",
	})
	require.NoError(t, err)

	// Role changed since the token was minted; refresh must pick up the
	// store's current role, not the stale claim.
	store.mu.Lock()
	store.p.Role = "Committee"
	store.mu.Unlock()

	newToken, claims, err := svc.Refresh(context.Background(), res.Token)
	require.NoError(t, err)
	assert.NotEmpty(t, newToken)
	assert.Equal(t, "m1", claims.UserID)
	assert.Equal(t, "Committee", claims.Role)
}

func TestRefresh_TamperedToken_RefreshInvalid(t *testing.T) {
	svc, _ := newTestService(t, &fakeStore{}, nil, 2*time.Minute)
	_, _, err := svc.Refresh(context.Background(), "garbage.token.value")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrRefreshInvalid))
}

func TestRefresh_PrincipalDeleted_RefreshInvalid(t *testing.T) {
	p := memberPrincipal(t)
	p.OTPCode = ptr("123456")
	p.OTPExpiresAt = ptr(time.Now().UnixMilli() + 30_000)
	store := &fakeStore{p: p}
	svc, _ := newTestService(t, store, nil, -time.Minute)

	res, err := svc.Verify(context.Background(), domain.KindMember, VerifyRequest{
		Email: "a@x.com", Password: "password123", OTP: "123456",
	})
	require.NoError(t, err)

	store.mu.Lock()
	store.p = nil
	store.mu.Unlock()

	_, _, err = svc.Refresh(context.Background(), res.Token)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrRefreshInvalid))
}

func TestRefresh_AdminRoleUsesAdminStore(t *testing.T) {
	admins := &fakeStore{p: &domain.Principal{
		ID:           "adm1",
		Email:        "root@x.com",
		PasswordHash: "unused",
		Role:         domain.RoleAdmin,
	}}
	provider, err := jwtinfra.NewProvider(testSecret, -time.Minute)
	require.NoError(t, err)
	svc := NewService(&fakeStore{}, admins, &stubMailer{}, provider, 30*time.Second)

	expired, err := provider.Sign("adm1", "root@x.com", domain.RoleAdmin)
	require.NoError(t, err)

	newToken, claims, err := svc.Refresh(context.Background(), expired)
	require.NoError(t, err)
	assert.NotEmpty(t, newToken)
	assert.Equal(t, domain.RoleAdmin, claims.Role)
}
