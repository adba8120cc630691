package domain

// PrincipalKind selects which credential table an auth flow operates on.
type PrincipalKind string

const (
	KindMember PrincipalKind = "member"
	KindAdmin  PrincipalKind = "admin"
)

const (
	RoleAdmin   = "admin"
	RoleStudent = "Student"
)

// Principal is the credential view of a member or admin record: everything
// the auth flow needs and nothing else. The OTP challenge occupies a single
// slot per principal; a challenge is outstanding iff OTPCode is set and
// OTPExpiresAt (Unix milliseconds) is in the future.
type Principal struct {
	ID           string
	Email        string
	PasswordHash string
	Role         string
	OTPCode      *string
	OTPExpiresAt *int64
}

// HasActiveOTP reports whether an unexpired challenge occupies the slot.
// nowMillis is server wall-clock time in Unix milliseconds.
func (p *Principal) HasActiveOTP(nowMillis int64) bool {
	return p.OTPCode != nil && p.OTPExpiresAt != nil && *p.OTPExpiresAt > nowMillis
}
