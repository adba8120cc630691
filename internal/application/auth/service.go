package auth

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/clubhub-api/internal/domain"
	jwtinfra "github.com/clubhub-api/internal/infrastructure/jwt"
	"github.com/clubhub-api/internal/infrastructure/smtp"
	"golang.org/x/crypto/bcrypt"
)

// PrincipalStore is the credential-store view the auth flow needs: lookup
// plus the OTP slot mutation. Both the members and admins tables satisfy it.
type PrincipalStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.Principal, error)
	Get(ctx context.Context, id string) (*domain.Principal, error)
	UpdateOTP(ctx context.Context, id string, code *string, expiresAt *int64) error
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type VerifyRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	OTP      string `json:"otp" validate:"required"`
}

// LoginResult carries a freshly issued challenge back to the handler.
// The code is also dispatched to the principal's email asynchronously.
type LoginResult struct {
	OTP       string
	ExpiresAt int64
}

type VerifyResult struct {
	Token     string
	Principal *domain.Principal
}

// Service runs the OTP-gated login flow and the token refresh path. There is
// one implementation for both principal kinds; the kind only selects which
// credential store a call operates on.
type Service interface {
	Login(ctx context.Context, kind domain.PrincipalKind, req LoginRequest) (*LoginResult, error)
	Verify(ctx context.Context, kind domain.PrincipalKind, req VerifyRequest) (*VerifyResult, error)
	Resend(ctx context.Context, kind domain.PrincipalKind, email string) (*LoginResult, error)
	VerifyToken(tokenStr string) (*jwtinfra.Claims, error)
	Refresh(ctx context.Context, tokenStr string) (string, *jwtinfra.Claims, error)
}

type service struct {
	memberStore PrincipalStore
	adminStore  PrincipalStore
	mailer      smtp.Mailer
	jwtProvider *jwtinfra.Provider
	otpWindow   time.Duration
}

func NewService(
	memberStore PrincipalStore,
	adminStore PrincipalStore,
	mailer smtp.Mailer,
	jwtProvider *jwtinfra.Provider,
	otpWindow time.Duration,
) Service {
	return &service{
		memberStore: memberStore,
		adminStore:  adminStore,
		mailer:      mailer,
		jwtProvider: jwtProvider,
		otpWindow:   otpWindow,
	}
}

func (s *service) store(kind domain.PrincipalKind) (PrincipalStore, error) {
	switch kind {
	case domain.KindMember:
		return s.memberStore, nil
	case domain.KindAdmin:
		return s.adminStore, nil
	}
	return nil, fmt.Errorf("unknown principal kind %q: %w", kind, domain.ErrBadRequest)
}

// Login checks the password and issues a fresh OTP challenge. The code is
// emailed fire-and-forget; the response never waits on (or fails with) the
// mail dispatch.
func (s *service) Login(ctx context.Context, kind domain.PrincipalKind, req LoginRequest) (*LoginResult, error) {
	store, err := s.store(kind)
	if err != nil {
		return nil, err
	}
	p, err := store.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("invalid email or password: %w", domain.ErrUnauthorized)
	}
	if bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(req.Password)) != nil {
		return nil, fmt.Errorf("invalid email or password: %w", domain.ErrUnauthorized)
	}
	return s.issue(ctx, store, p)
}

// Verify validates the submitted OTP and mints a session token. Expiry is
// checked before mismatch, so an expired-and-wrong code always reports
// expired. A successful validation clears the slot before the token is
// minted, so the same code can never be accepted twice.
func (s *service) Verify(ctx context.Context, kind domain.PrincipalKind, req VerifyRequest) (*VerifyResult, error) {
	store, err := s.store(kind)
	if err != nil {
		return nil, err
	}
	p, err := store.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("invalid email or password: %w", domain.ErrUnauthorized)
	}
	if bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(req.Password)) != nil {
		return nil, fmt.Errorf("invalid email or password: %w", domain.ErrUnauthorized)
	}

	now := time.Now().UnixMilli()
	if p.OTPExpiresAt == nil || now > *p.OTPExpiresAt {
		return nil, fmt.Errorf("OTP expired: %w", domain.ErrChallengeExpired)
	}
	if p.OTPCode == nil || *p.OTPCode != req.OTP {
		return nil, fmt.Errorf("OTP mismatch: %w", domain.ErrChallengeMismatch)
	}
	if err := store.UpdateOTP(ctx, p.ID, nil, nil); err != nil {
		return nil, fmt.Errorf("clear OTP slot: %w", err)
	}

	token, err := s.jwtProvider.Sign(p.ID, p.Email, p.Role)
	if err != nil {
		return nil, err
	}
	return &VerifyResult{Token: token, Principal: p}, nil
}

// Resend issues a new OTP for a known email without re-checking the
// password; the same active-challenge rule as Login applies. An unknown
// email is reported as not-found, unlike Login's unauthorized.
func (s *service) Resend(ctx context.Context, kind domain.PrincipalKind, email string) (*LoginResult, error) {
	store, err := s.store(kind)
	if err != nil {
		return nil, err
	}
	p, err := store.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("principal not found: %w", domain.ErrNotFound)
	}
	return s.issue(ctx, store, p)
}

// issue generates and persists a challenge for p. At most one challenge may
// be outstanding per principal; re-issuing over an unexpired one fails with
// ErrChallengeActive.
func (s *service) issue(ctx context.Context, store PrincipalStore, p *domain.Principal) (*LoginResult, error) {
	now := time.Now().UnixMilli()
	if p.HasActiveOTP(now) {
		return nil, fmt.Errorf("existing OTP still valid: %w", domain.ErrChallengeActive)
	}

	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return nil, err
	}
	code := fmt.Sprintf("%06d", n.Int64()+100000)
	expiresAt := now + s.otpWindow.Milliseconds()

	if err := store.UpdateOTP(ctx, p.ID, &code, &expiresAt); err != nil {
		return nil, err
	}

	go func(to, code string) {
		if err := s.mailer.SendEmail(to, "Login OTP", "Your one-time passcode is "+code+". It expires in "+s.otpWindow.String()+"."); err != nil {
			slog.Warn("failed to send OTP email", "email", to, "err", err)
		}
	}(p.Email, code)

	return &LoginResult{OTP: code, ExpiresAt: expiresAt}, nil
}

// VerifyToken delegates to the token provider. Exposed so the middleware
// depends on the service interface alone.
func (s *service) VerifyToken(tokenStr string) (*jwtinfra.Claims, error) {
	return s.jwtProvider.Verify(tokenStr)
}

// Refresh mints a new short-lived token from an expired-but-structurally-valid
// one. The role is re-derived from the credential store rather than trusted
// from the stale claims, so a demoted principal cannot refresh into its old
// role. Signature or structure faults fail with ErrRefreshInvalid; expiry
// alone never blocks a refresh.
func (s *service) Refresh(ctx context.Context, tokenStr string) (string, *jwtinfra.Claims, error) {
	claims, err := s.jwtProvider.VerifyExpired(tokenStr)
	if err != nil {
		return "", nil, err
	}

	store := s.memberStore
	if claims.Role == domain.RoleAdmin {
		store = s.adminStore
	}
	p, err := store.Get(ctx, claims.UserID)
	if err != nil {
		return "", nil, fmt.Errorf("principal no longer exists: %w", domain.ErrRefreshInvalid)
	}

	token, err := s.jwtProvider.Sign(p.ID, p.Email, p.Role)
	if err != nil {
		return "", nil, err
	}
	refreshed := &jwtinfra.Claims{UserID: p.ID, Email: p.Email, Role: p.Role}
	return token, refreshed, nil
}
