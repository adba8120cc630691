package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking infrastructure details.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrBadRequest   = errors.New("bad request")
)

// OTP challenge failures. Expiry is checked before mismatch, so an
// expired-and-wrong code reports expired, never invalid.
var (
	ErrChallengeActive   = errors.New("challenge still active")
	ErrChallengeExpired  = errors.New("challenge expired")
	ErrChallengeMismatch = errors.New("challenge mismatch")
)

// Token failures. The auth middleware reacts differently to each:
// an invalid token is terminal, an expired one triggers a silent refresh.
var (
	ErrTokenInvalid   = errors.New("token invalid")
	ErrTokenExpired   = errors.New("token expired")
	ErrRefreshInvalid = errors.New("refresh invalid")
)
